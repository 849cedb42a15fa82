package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. Anything else is rejected at the handler layer.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет учетную запись сервиса.
type User struct {
	ID           string    `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	FName        string    `gorm:"column:fname;not null" json:"fname"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"` // скрываем пароль в JSON
	Role         string    `gorm:"column:role;not null;default:user" json:"role"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Tasks []Task `gorm:"foreignKey:UserID" json:"tasks,omitempty"`
	Links []Link `gorm:"foreignKey:UserID" json:"links,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate присваивает UUID новым записям
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsAdmin сообщает, имеет ли пользователь административную роль
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
