package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Link представляет сокращенную ссылку. Ссылки не редактируются после
// создания, только деактивируются (мягкое удаление).
type Link struct {
	ID          string    `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	OriginalURL string    `gorm:"column:original_url;not null;type:text" json:"original_url"`
	ShortCode   string    `gorm:"column:short_code;uniqueIndex;not null" json:"short_code"`
	UserID      string    `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	// Relationships
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Clicks []Click `gorm:"foreignKey:URLID" json:"clicks,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (Link) TableName() string {
	return "urls"
}

// BeforeCreate присваивает UUID новым записям
func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
