package models

import "time"

// GameResult records one completed quiz session reported by a player.
type GameResult struct {
	ID             uint      `gorm:"primaryKey"`
	RoomID         string    `gorm:"type:varchar(16);not null;index"`
	TelegramID     int64     `gorm:"not null;index"`
	Score          int       `gorm:"default:0"`
	CorrectAnswers int       `gorm:"default:0"`
	CompletedAt    time.Time `gorm:"autoCreateTime"`
}

func (GameResult) TableName() string {
	return "game_results"
}
