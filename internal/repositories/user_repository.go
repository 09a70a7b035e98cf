package repositories

import (
	"time"

	"github.com/tonquiz/miniapp/internal/models"
	"github.com/tonquiz/miniapp/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertUser creates the user on first login or refreshes the profile
// fields Telegram may have changed since, then returns the stored row.
func (r *UserRepository) UpsertUser(telegramID int64, username, firstName, lastName string) (*models.User, error) {
	user := &models.User{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
		LastActive: time.Now().UTC(),
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "first_name", "last_name", "last_active"}),
	}).Create(user).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to upsert user")
	}

	return r.GetByTelegramID(telegramID)
}

// GetByTelegramID retrieves a user by Telegram ID.
func (r *UserRepository) GetByTelegramID(telegramID int64) (*models.User, error) {
	var user models.User
	result := r.db.Where("telegram_id = ?", telegramID).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// ApplyReferral grants the referral bonus to both sides of an invite.
// It is a no-op when the invitee already has a referrer or a bonus, when
// the code is unknown, or when users try to refer themselves.
func (r *UserRepository) ApplyReferral(telegramID int64, code string, bonus int64) error {
	user, err := r.GetByTelegramID(telegramID)
	if err != nil {
		return err
	}
	if user.ReferredBy != 0 || user.ReferralBonus != 0 {
		return nil
	}

	var referrer models.User
	result := r.db.Where("referral_code = ?", code).First(&referrer)
	if result.Error == gorm.ErrRecordNotFound {
		return nil
	}
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to look up referrer")
	}
	if referrer.TelegramID == telegramID {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("telegram_id = ?", telegramID).
			Updates(map[string]interface{}{
				"referred_by":    referrer.TelegramID,
				"referral_bonus": gorm.Expr("referral_bonus + ?", bonus),
			}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("telegram_id = ?", referrer.TelegramID).
			Update("referral_bonus", gorm.Expr("referral_bonus + ?", bonus)).Error
	})
}

// GetLeaderboard returns the top users ranked by total score.
func (r *UserRepository) GetLeaderboard(limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}

	var users []models.User
	err := r.db.Order("total_score DESC").Limit(limit).Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get leaderboard")
	}
	return users, nil
}

// Exists checks whether a user is registered.
func (r *UserRepository) Exists(telegramID int64) (bool, error) {
	var count int64
	result := r.db.Model(&models.User{}).Where("telegram_id = ?", telegramID).Count(&count)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check user existence")
	}
	return count > 0, nil
}
