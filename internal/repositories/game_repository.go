package repositories

import (
	"github.com/tonquiz/miniapp/internal/models"
	"github.com/tonquiz/miniapp/pkg/errors"
	"gorm.io/gorm"
)

type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

// RecordCompletion stores a finished session and rolls the score into the
// room standing and the player's lifetime totals, atomically.
func (r *GameRepository) RecordCompletion(roomID string, telegramID int64, score, correctAnswers int) (uint, error) {
	result := &models.GameResult{
		RoomID:         roomID,
		TelegramID:     telegramID,
		Score:          score,
		CorrectAnswers: correctAnswers,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(result).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.RoomPlayer{}).
			Where("room_id = ? AND telegram_id = ?", roomID, telegramID).
			Update("score", score).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("telegram_id = ?", telegramID).
			Updates(map[string]interface{}{
				"total_score":     gorm.Expr("total_score + ?", score),
				"games_played":    gorm.Expr("games_played + 1"),
				"correct_answers": gorm.Expr("correct_answers + ?", correctAnswers),
			}).Error
	})
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to record completion")
	}

	return result.ID, nil
}
