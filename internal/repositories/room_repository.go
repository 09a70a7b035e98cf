package repositories

import (
	"time"

	"github.com/tonquiz/miniapp/internal/models"
	"github.com/tonquiz/miniapp/pkg/errors"
	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// RoomPlayerInfo is a room member joined with their profile.
type RoomPlayerInfo struct {
	TelegramID  int64  `json:"telegram_id"`
	Username    string `json:"username,omitempty"`
	FirstName   string `json:"first_name"`
	AvatarEmoji string `json:"avatar_emoji"`
	Score       int    `json:"score"`
}

// CreateRoom creates a room with the creator already seated in it.
func (r *RoomRepository) CreateRoom(creatorID int64, name, paymentType string, isPrivate bool, maxPlayers int) (*models.Room, error) {
	room := &models.Room{
		CreatorID:   creatorID,
		RoomName:    name,
		IsPrivate:   isPrivate,
		MaxPlayers:  maxPlayers,
		PaymentType: paymentType,
		// Creator counts as the first player
		CurrentPlayers: 1,
		Status:         models.RoomStatusWaiting,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		member := &models.RoomPlayer{
			RoomID:     room.RoomID,
			TelegramID: creatorID,
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create room")
	}

	return room, nil
}

// JoinRoom seats a player in a room. Joining a room the player already
// sits in is a no-op, so the operation is safe to repeat.
func (r *RoomRepository) JoinRoom(roomID string, telegramID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		result := tx.Where("room_id = ?", roomID).First(&room)
		if result.Error == gorm.ErrRecordNotFound {
			return errors.New(errors.ErrCodeNotFound, "room not found")
		}
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get room")
		}

		var count int64
		tx.Model(&models.RoomPlayer{}).
			Where("room_id = ? AND telegram_id = ?", roomID, telegramID).
			Count(&count)
		if count > 0 {
			return nil
		}

		if room.CurrentPlayers >= room.MaxPlayers {
			return errors.New(errors.ErrCodeRoomFull, "room is full")
		}

		member := &models.RoomPlayer{
			RoomID:     roomID,
			TelegramID: telegramID,
		}
		if err := tx.Create(member).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to add player")
		}

		return tx.Model(&models.Room{}).
			Where("room_id = ?", roomID).
			Update("current_players", gorm.Expr("current_players + 1")).Error
	})
}

// GetRoom retrieves a room by its public identifier.
func (r *RoomRepository) GetRoom(roomID string) (*models.Room, error) {
	var room models.Room
	result := r.db.Where("room_id = ?", roomID).First(&room)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "room not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get room")
	}

	return &room, nil
}

// GetPlayers returns the room's players with profiles, best score first.
func (r *RoomRepository) GetPlayers(roomID string) ([]RoomPlayerInfo, error) {
	var players []RoomPlayerInfo
	err := r.db.Table("room_players").
		Select("room_players.telegram_id, users.username, users.first_name, users.avatar_emoji, room_players.score").
		Joins("JOIN users ON users.telegram_id = room_players.telegram_id").
		Where("room_players.room_id = ?", roomID).
		Order("room_players.score DESC").
		Scan(&players).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get room players")
	}
	return players, nil
}

// RoomListing is a public room joined with its creator's profile, as
// shown in the room list.
type RoomListing struct {
	RoomID            string `json:"room_id"`
	CreatorTelegramID int64  `json:"creator_telegram_id"`
	RoomName          string `json:"room_name"`
	IsPrivate         bool   `json:"is_private"`
	MaxPlayers        int    `json:"max_players"`
	CurrentPlayers    int    `json:"current_players"`
	Status            string `json:"status"`
	CreatorUsername   string `json:"creator_username,omitempty"`
	CreatorName       string `json:"creator_name,omitempty"`
}

// ListPublicRooms returns joinable public rooms, newest first.
func (r *RoomRepository) ListPublicRooms(limit int) ([]RoomListing, error) {
	if limit <= 0 {
		limit = 20
	}

	var rooms []RoomListing
	err := r.db.Table("rooms").
		Select("rooms.room_id, rooms.creator_id AS creator_telegram_id, rooms.room_name, rooms.is_private, rooms.max_players, rooms.current_players, rooms.status, users.username AS creator_username, users.first_name AS creator_name").
		Joins("JOIN users ON users.telegram_id = rooms.creator_id").
		Where("rooms.status = ? AND rooms.is_private = ?", models.RoomStatusWaiting, false).
		Order("rooms.created_at DESC").
		Limit(limit).
		Scan(&rooms).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list rooms")
	}
	return rooms, nil
}

// UpdateStatus sets a room's status.
func (r *RoomRepository) UpdateStatus(roomID, status string) error {
	result := r.db.Model(&models.Room{}).
		Where("room_id = ?", roomID).
		Update("status", status)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update room status")
	}
	return nil
}

// FinishStaleRooms marks rooms older than maxAge as finished so the
// public list does not accumulate abandoned lobbies.
func (r *RoomRepository) FinishStaleRooms(maxAge time.Duration) (int64, error) {
	result := r.db.Model(&models.Room{}).
		Where("created_at < ? AND status != ?", time.Now().UTC().Add(-maxAge), models.RoomStatusFinished).
		Update("status", models.RoomStatusFinished)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to finish stale rooms")
	}
	return result.RowsAffected, nil
}
