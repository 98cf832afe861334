package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bettercalldoel/event-platform-api/models"
)

// CouponRepository handles coupon lookup and its single-use marker.
type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	// MarkUsed sets used_at, guarded by used_at IS NULL. Returns
	// ErrCouponUnavailable when another transaction got there first.
	MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) error
	// Release clears used_at so the coupon can back a new transaction.
	Release(ctx context.Context, id uuid.UUID) error
}

// GormCouponRepository implements CouponRepository using GORM.
type GormCouponRepository struct {
	db *gorm.DB
}

func NewGormCouponRepository(db *gorm.DB) CouponRepository {
	return &GormCouponRepository{db: db}
}

func (r *GormCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "code = ?", code).Error; err != nil {
		return nil, notFound(err)
	}
	return &coupon, nil
}

func (r *GormCouponRepository) MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", at)
	if res.Error != nil {
		return fmt.Errorf("coupon mark used failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCouponUnavailable
	}
	return nil
}

func (r *GormCouponRepository) Release(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ?", id).
		Update("used_at", nil)
	if res.Error != nil {
		return fmt.Errorf("coupon release failed: %w", res.Error)
	}
	return nil
}
