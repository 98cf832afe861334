package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bettercalldoel/event-platform-api/models"
)

// TransactionRepository persists the transaction aggregate. Every
// state-changing write is conditional on the current status (and on
// decided_at being unset for terminal writes), so a concurrent transition
// shows up as zero affected rows instead of a lost update.
type TransactionRepository interface {
	Create(ctx context.Context, trx *models.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)

	// SetPaymentProof records the proof and moves the row to
	// WAITING_FOR_ADMIN_CONFIRMATION, guarded on the current status.
	SetPaymentProof(ctx context.Context, id uuid.UUID, proofURL string, uploadedAt, decisionDueAt time.Time) error

	// MarkDone finalizes an accepted transaction, guarded on status and
	// decided_at IS NULL.
	MarkDone(ctx context.Context, id uuid.UUID, at time.Time) error

	// ClaimForRollback is the compare-and-set that makes compensation run at
	// most once: it flips status and stamps decided_at only if the row is
	// still in fromStatus and undecided. Returns false when the claim misses.
	ClaimForRollback(ctx context.Context, id uuid.UUID, fromStatus, toStatus models.TransactionStatus, at time.Time) (bool, error)

	// ClearCoupon releases the coupon linkage so the coupon is reusable.
	ClearCoupon(ctx context.Context, id uuid.UUID) error
	// ClearPointsUsed zeroes the recorded spend after the refund credit.
	ClearPointsUsed(ctx context.Context, id uuid.UUID) error

	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Transaction, error)
	FindByOrganizer(ctx context.Context, organizerID uuid.UUID, eventID *uuid.UUID, status *models.TransactionStatus) ([]models.Transaction, error)

	// FindPaymentOverdue returns WAITING_FOR_PAYMENT rows whose payment
	// deadline passed without a proof upload.
	FindPaymentOverdue(ctx context.Context, now time.Time) ([]models.Transaction, error)
	// FindDecisionOverdue returns WAITING_FOR_ADMIN_CONFIRMATION rows whose
	// decision deadline passed.
	FindDecisionOverdue(ctx context.Context, now time.Time) ([]models.Transaction, error)
}

// GormTransactionRepository implements TransactionRepository using GORM.
type GormTransactionRepository struct {
	db *gorm.DB
}

func NewGormTransactionRepository(db *gorm.DB) TransactionRepository {
	return &GormTransactionRepository{db: db}
}

func (r *GormTransactionRepository) Create(ctx context.Context, trx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(trx).Error
}

func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var trx models.Transaction
	if err := r.db.WithContext(ctx).First(&trx, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &trx, nil
}

func (r *GormTransactionRepository) SetPaymentProof(ctx context.Context, id uuid.UUID, proofURL string, uploadedAt, decisionDueAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, models.StatusWaitingForPayment).
		Updates(map[string]interface{}{
			"payment_proof_url":         proofURL,
			"payment_proof_uploaded_at": uploadedAt,
			"status":                    models.StatusWaitingForAdminConfirmation,
			"decision_due_at":           decisionDueAt,
		})
	if res.Error != nil {
		return fmt.Errorf("set payment proof failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyDecided
	}
	return nil
}

func (r *GormTransactionRepository) MarkDone(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ? AND decided_at IS NULL", id, models.StatusWaitingForAdminConfirmation).
		Updates(map[string]interface{}{
			"status":     models.StatusDone,
			"decided_at": at,
		})
	if res.Error != nil {
		return fmt.Errorf("mark done failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyDecided
	}
	return nil
}

func (r *GormTransactionRepository) ClaimForRollback(ctx context.Context, id uuid.UUID, fromStatus, toStatus models.TransactionStatus, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ? AND decided_at IS NULL", id, fromStatus).
		Updates(map[string]interface{}{
			"status":          toStatus,
			"decided_at":      at,
			"decision_due_at": nil,
		})
	if res.Error != nil {
		return false, fmt.Errorf("rollback claim failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormTransactionRepository) ClearCoupon(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"coupon_id":       nil,
			"coupon_discount": 0,
		})
	if res.Error != nil {
		return fmt.Errorf("clear coupon failed: %w", res.Error)
	}
	return nil
}

func (r *GormTransactionRepository) ClearPointsUsed(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		UpdateColumn("points_used", 0)
	if res.Error != nil {
		return fmt.Errorf("clear points used failed: %w", res.Error)
	}
	return nil
}

func (r *GormTransactionRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Transaction, error) {
	var items []models.Transaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormTransactionRepository) FindByOrganizer(ctx context.Context, organizerID uuid.UUID, eventID *uuid.UUID, status *models.TransactionStatus) ([]models.Transaction, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Joins("JOIN events ON events.id = transactions.event_id").
		Where("events.organizer_id = ?", organizerID)
	if eventID != nil {
		query = query.Where("transactions.event_id = ?", *eventID)
	}
	if status != nil {
		query = query.Where("transactions.status = ?", *status)
	}

	var items []models.Transaction
	if err := query.Order("transactions.created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormTransactionRepository) FindPaymentOverdue(ctx context.Context, now time.Time) ([]models.Transaction, error) {
	var items []models.Transaction
	err := r.db.WithContext(ctx).
		Where("status = ? AND payment_due_at < ? AND payment_proof_url IS NULL",
			models.StatusWaitingForPayment, now).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormTransactionRepository) FindDecisionOverdue(ctx context.Context, now time.Time) ([]models.Transaction, error) {
	var items []models.Transaction
	err := r.db.WithContext(ctx).
		Where("status = ? AND decision_due_at < ?",
			models.StatusWaitingForAdminConfirmation, now).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
