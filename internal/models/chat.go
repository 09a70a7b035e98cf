package models

import "time"

// ChatMessage is append-only; the autoincrement ID doubles as the
// high-water mark clients poll with.
type ChatMessage struct {
	ID         uint      `gorm:"primaryKey"`
	RoomID     string    `gorm:"type:varchar(16);not null;index"`
	TelegramID int64     `gorm:"not null"`
	Text       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
