package models

import (
	"time"

	"github.com/tonquiz/miniapp/pkg/utils"
	"gorm.io/gorm"
)

type User struct {
	ID             uint      `gorm:"primaryKey"`
	TelegramID     int64     `gorm:"uniqueIndex;not null"`
	Username       string    `gorm:"type:varchar(255)"`
	FirstName      string    `gorm:"type:varchar(255);not null"`
	LastName       string    `gorm:"type:varchar(255)"`
	AvatarEmoji    string    `gorm:"type:varchar(8)"`
	TotalScore     int64     `gorm:"default:0;not null"`
	GamesPlayed    int       `gorm:"default:0;not null"`
	CorrectAnswers int       `gorm:"default:0;not null"`
	ReferralCode   string    `gorm:"uniqueIndex;type:varchar(8)"`
	ReferralBonus  int64     `gorm:"default:0;not null"`
	ReferredBy     int64     `gorm:"default:0"`
	LastActive     time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// avatarEmojis is the fixed pool an avatar is picked from by telegram id.
var avatarEmojis = []string{"🎮", "🎯", "🚀", "⚡", "🔥", "💎", "🌟", "🎨"}

// PickAvatar returns the deterministic avatar for a telegram id.
func PickAvatar(telegramID int64) string {
	idx := telegramID % int64(len(avatarEmojis))
	if idx < 0 {
		idx = -idx
	}
	return avatarEmojis[idx]
}

// DisplayName returns the best human-readable name for the user.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return "Игрок"
}

// BeforeCreate fills the referral code and avatar for new users.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ReferralCode == "" {
		u.ReferralCode = utils.GenerateRandomID(8)
	}
	if u.AvatarEmoji == "" {
		u.AvatarEmoji = PickAvatar(u.TelegramID)
	}
	return nil
}

func (User) TableName() string {
	return "users"
}
