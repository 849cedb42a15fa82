package domain

import "time"

// Click представляет переход по сокращенной ссылке. Записи неизменяемы и
// хранятся бессрочно для аналитики.
type Click struct {
	ID         int64     `gorm:"primaryKey;column:id" json:"id"`
	URLID      string    `gorm:"column:url_id;type:uuid;not null;index" json:"url_id"`
	IP         *string   `gorm:"column:ip;size:45" json:"ip,omitempty"`
	UserAgent  *string   `gorm:"column:user_agent;type:text" json:"user_agent,omitempty"`
	DeviceType *string   `gorm:"column:device_type;size:10" json:"device_type,omitempty"` // 'desktop', 'mobile', 'tablet', 'bot'
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`

	// Relationships
	Link *Link `gorm:"foreignKey:URLID" json:"link,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (Click) TableName() string {
	return "clicks"
}
