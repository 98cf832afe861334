package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bettercalldoel/event-platform-api/models"
)

// VoucherRepository handles voucher lookup and its redemption counter.
type VoucherRepository interface {
	Create(ctx context.Context, voucher *models.Voucher) error
	FindByCode(ctx context.Context, code string) (*models.Voucher, error)
	// Redeem increments used_count, guarded by used_count < max_uses when a
	// cap is set. Returns ErrVoucherExhausted when the cap is hit, so
	// concurrent redemptions can never overshoot.
	Redeem(ctx context.Context, id uuid.UUID) error
	// Unredeem decrements used_count, clamped at zero.
	Unredeem(ctx context.Context, id uuid.UUID) error
}

// GormVoucherRepository implements VoucherRepository using GORM.
type GormVoucherRepository struct {
	db *gorm.DB
}

func NewGormVoucherRepository(db *gorm.DB) VoucherRepository {
	return &GormVoucherRepository{db: db}
}

func (r *GormVoucherRepository) Create(ctx context.Context, voucher *models.Voucher) error {
	return r.db.WithContext(ctx).Create(voucher).Error
}

func (r *GormVoucherRepository) FindByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.db.WithContext(ctx).First(&voucher, "code = ?", code).Error; err != nil {
		return nil, notFound(err)
	}
	return &voucher, nil
}

func (r *GormVoucherRepository) Redeem(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Voucher{}).
		Where("id = ? AND (max_uses IS NULL OR used_count < max_uses)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return fmt.Errorf("voucher redeem failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVoucherExhausted
	}
	return nil
}

func (r *GormVoucherRepository) Unredeem(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Voucher{}).
		Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("GREATEST(used_count - 1, 0)"))
	if res.Error != nil {
		return fmt.Errorf("voucher unredeem failed: %w", res.Error)
	}
	return nil
}
