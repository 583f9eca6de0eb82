package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ministryhub_backend/internals/features/users/auth/model"
)

type BlacklistRepository interface {
	Add(ctx context.Context, digest string, expiredAt time.Time) error
	Exists(ctx context.Context, digest string, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type blacklistRepo struct {
	db *gorm.DB
}

func NewBlacklistRepo(db *gorm.DB) BlacklistRepository {
	return &blacklistRepo{db: db}
}

// Add is idempotent; a repeated logout keeps the later expiry.
func (r *blacklistRepo) Add(ctx context.Context, digest string, expiredAt time.Time) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"expired_at"}),
		}).
		Create(&model.TokenBlacklist{Token: digest, ExpiredAt: expiredAt.UTC()}).Error
}

func (r *blacklistRepo) Exists(ctx context.Context, digest string, now time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.TokenBlacklist{}).
		Where("token = ? AND expired_at > ?", digest, now.UTC()).
		Count(&n).Error
	return n > 0, err
}

func (r *blacklistRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expired_at <= ?", before.UTC()).
		Delete(&model.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
