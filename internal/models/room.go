package models

import (
	"time"

	"github.com/tonquiz/miniapp/pkg/utils"
	"gorm.io/gorm"
)

type Room struct {
	ID             uint      `gorm:"primaryKey"`
	RoomID         string    `gorm:"uniqueIndex;type:varchar(16);not null"`
	CreatorID      int64     `gorm:"not null;index"`
	RoomName       string    `gorm:"type:varchar(255);not null"`
	IsPrivate      bool      `gorm:"default:false"`
	MaxPlayers     int       `gorm:"default:10"`
	CurrentPlayers int       `gorm:"default:0"`
	Status         string    `gorm:"type:varchar(20);default:'waiting';index"`
	PaymentType    string    `gorm:"type:varchar(10)"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// Room status constants
const (
	RoomStatusWaiting  = "waiting"
	RoomStatusPlaying  = "playing"
	RoomStatusFinished = "finished"
)

// Payment type constants: a room is unlocked either by watching an ad
// or by paying in TON.
const (
	PaymentTypeAd  = "ad"
	PaymentTypeTon = "ton"
)

// BeforeCreate generates the public room identifier.
func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.RoomID == "" {
		r.RoomID = utils.GenerateRandomID(11)
	}
	return nil
}

func (Room) TableName() string {
	return "rooms"
}

type RoomPlayer struct {
	ID         uint      `gorm:"primaryKey"`
	RoomID     string    `gorm:"type:varchar(16);not null;index:idx_room_player,unique"`
	TelegramID int64     `gorm:"not null;index:idx_room_player,unique"`
	Score      int       `gorm:"default:0"`
	JoinedAt   time.Time `gorm:"autoCreateTime"`
}

func (RoomPlayer) TableName() string {
	return "room_players"
}
