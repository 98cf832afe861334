package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bettercalldoel/event-platform-api/models"
)

// PointLedgerRepository is append-only: entries are never updated or deleted,
// corrections are new entries with the opposite sign.
type PointLedgerRepository interface {
	Append(ctx context.Context, entry *models.PointLedgerEntry) error
	// AvailableBalance sums all entries for the user that have not expired as
	// of the given instant.
	AvailableBalance(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
}

// GormPointLedgerRepository implements PointLedgerRepository using GORM.
type GormPointLedgerRepository struct {
	db *gorm.DB
}

func NewGormPointLedgerRepository(db *gorm.DB) PointLedgerRepository {
	return &GormPointLedgerRepository{db: db}
}

func (r *GormPointLedgerRepository) Append(ctx context.Context, entry *models.PointLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *GormPointLedgerRepository) AvailableBalance(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).
		Model(&models.PointLedgerEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND (expires_at IS NULL OR expires_at > ?)", userID, at).
		Scan(&balance).Error
	if err != nil {
		return 0, err
	}
	return balance, nil
}
