package entity

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"not null" json:"email"`
	Name           string    `json:"name"`
	TelegramChatID int64     `json:"telegram_chat_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
