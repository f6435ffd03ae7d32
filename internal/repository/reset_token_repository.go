package repository

import (
	"errors"
	"time"

	"github.com/pokerun/leaderboard/internal/models"
	"gorm.io/gorm"
)

type ResetTokenRepository struct {
	db *gorm.DB
}

func NewResetTokenRepository(db *gorm.DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

func (r *ResetTokenRepository) CreateToken(token *models.PasswordResetToken) error {
	return r.db.Create(token).Error
}

func (r *ResetTokenRepository) SaveToken(token *models.PasswordResetToken) error {
	return r.db.Save(token).Error
}

func (r *ResetTokenRepository) GetByToken(token string) (*models.PasswordResetToken, error) {
	var reset models.PasswordResetToken
	err := r.db.Preload("User").Where("token = ?", token).First(&reset).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &reset, nil
}

// DeleteByUserID clears any outstanding token before a new one is issued, so
// at most one active token exists per user.
func (r *ResetTokenRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.PasswordResetToken{}).Error
}

// DeleteExpired sweeps tokens past their expiry, used or not. Run by
// cmd/sweeper on an external schedule.
func (r *ResetTokenRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expiry_date < ?", now).Delete(&models.PasswordResetToken{})
	return result.RowsAffected, result.Error
}
