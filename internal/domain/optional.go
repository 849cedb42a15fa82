package domain

import "encoding/json"

// Optional различает три состояния JSON-поля: отсутствует (Set=false),
// явный null (Set=true, Valid=false) и значение (Set=true, Valid=true).
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// NewOptional возвращает установленное значение
func NewOptional[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// NullOptional возвращает явный null ("очистить значение")
func NullOptional[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON вызывается только для присутствующих в запросе полей,
// поэтому сам факт вызова означает Set=true.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON сериализует значение либо null
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
