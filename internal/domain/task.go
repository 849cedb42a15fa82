package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriority проверяет значение приоритета
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task представляет задачу пользователя. Срок выполнения хранится только как
// абсолютный UTC момент (DueAt); локальные дата и время выводятся из него
// заново при каждом чтении.
type Task struct {
	ID          string     `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	UserID      string     `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Description *string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Completed   bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	Priority    string     `gorm:"column:priority;not null;default:medium" json:"priority"`
	DueAt       *time.Time `gorm:"column:due_at" json:"due_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (Task) TableName() string {
	return "tasks"
}

// BeforeCreate присваивает UUID новым записям
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TaskPatch описывает частичное обновление задачи. Указатели различают
// "поле не передано" (nil) от "передано"; Optional дополнительно различает
// явный null ("очистить значение").
type TaskPatch struct {
	Title       *string
	Description Optional[string]
	Completed   *bool
	Priority    *string
	DueAt       Optional[time.Time]
}

// IsEmpty сообщает, что патч не содержит ни одного поля
func (p *TaskPatch) IsEmpty() bool {
	return p.Title == nil && !p.Description.Set && p.Completed == nil &&
		p.Priority == nil && !p.DueAt.Set
}
