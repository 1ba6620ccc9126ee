package postgres

import (
	"context"
	"errors"

	"github.com/sarathaj/User-Management/internal/domain/entities"
	"github.com/sarathaj/User-Management/internal/domain/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) repositories.TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) SaveOutstanding(ctx context.Context, token *entities.OutstandingToken) error {
	model := OutstandingTokenModel{
		JTI:       token.JTI,
		UserId:    token.UserId,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// Blacklist is idempotent: a second call for the same jti keeps the first row.
func (r *TokenRepository) Blacklist(ctx context.Context, token *entities.OutstandingToken) error {
	model := BlacklistedTokenModel{
		JTI:       token.JTI,
		UserId:    token.UserId,
		ExpiresAt: token.ExpiresAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(&model).Error
}

func (r *TokenRepository) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	var model BlacklistedTokenModel
	err := r.db.WithContext(ctx).Where("jti = ?", jti).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
