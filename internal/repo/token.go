package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/hr_backend/internal/models"
)

// TokenRepo is the refresh token store. Tokens are soft-revoked, never
// deleted, so revocations stay visible for audit.
type TokenRepo struct {
	DB *gorm.DB
}

func (r *TokenRepo) Add(ctx context.Context, token *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

func (r *TokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var stored models.RefreshToken
	err := r.DB.WithContext(ctx).Where("token = ?", token).First(&stored).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stored, nil
}

func (r *TokenRepo) Update(ctx context.Context, token *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Save(token).Error
}

func (r *TokenRepo) ActiveByUser(ctx context.Context, userID uint) ([]models.RefreshToken, error) {
	var tokens []models.RefreshToken
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, time.Now()).
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// RevokeAllForUser stamps every active token of the user in one UPDATE so a
// concurrent issuance cannot be half-revoked.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint, reason string) error {
	now := time.Now()
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now).
		Updates(map[string]any{"revoked_at": now, "revoked_reason": reason}).Error
}
