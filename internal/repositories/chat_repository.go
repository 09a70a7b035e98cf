package repositories

import (
	"time"

	"github.com/tonquiz/miniapp/internal/models"
	"github.com/tonquiz/miniapp/pkg/errors"
	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// ChatMessageInfo is a stored message joined with the sender's profile.
type ChatMessageInfo struct {
	ID          uint      `json:"id"`
	TelegramID  int64     `json:"telegram_id"`
	FirstName   string    `json:"first_name"`
	Username    string    `json:"username,omitempty"`
	AvatarEmoji string    `json:"avatar_emoji"`
	Text        string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// Append stores a message in a room's chat.
func (r *ChatRepository) Append(roomID string, telegramID int64, text string) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		RoomID:     roomID,
		TelegramID: telegramID,
		Text:       text,
	}
	if err := r.db.Create(msg).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to store message")
	}
	return msg, nil
}

// ListSince returns up to limit messages with id greater than sinceID,
// in increasing id order. The id sequence has no gaps within a room poll
// window, which is what lets clients use it as a high-water mark.
func (r *ChatRepository) ListSince(roomID string, sinceID uint, limit int) ([]ChatMessageInfo, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var messages []ChatMessageInfo
	err := r.db.Table("chat_messages").
		Select("chat_messages.id, chat_messages.telegram_id, users.first_name, users.username, users.avatar_emoji, chat_messages.text, chat_messages.created_at").
		Joins("JOIN users ON users.telegram_id = chat_messages.telegram_id").
		Where("chat_messages.room_id = ? AND chat_messages.id > ?", roomID, sinceID).
		Order("chat_messages.id ASC").
		Limit(limit).
		Scan(&messages).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list messages")
	}
	return messages, nil
}
