package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bettercalldoel/event-platform-api/models"
)

// TargetKind selects which counter a reservation addresses.
type TargetKind string

const (
	TargetEvent      TargetKind = "event"
	TargetTicketType TargetKind = "ticket_type"
)

// ReservationTarget identifies the authoritative inventory for a purchase:
// the event itself, or one of its ticket types.
type ReservationTarget struct {
	Kind TargetKind
	ID   uuid.UUID
}

func EventTarget(id uuid.UUID) ReservationTarget {
	return ReservationTarget{Kind: TargetEvent, ID: id}
}

func TicketTypeTarget(id uuid.UUID) ReservationTarget {
	return ReservationTarget{Kind: TargetTicketType, ID: id}
}

// InventoryRepository performs atomic seat accounting. Reserve and Release
// embed their guard in the UPDATE itself; there is never a read-then-write
// pair two concurrent buyers could interleave.
type InventoryRepository interface {
	// Reserve decrements remaining seats, succeeding only when enough remain.
	// Returns ErrInsufficientSeats otherwise.
	Reserve(ctx context.Context, target ReservationTarget, qty int) error
	// Release increments remaining seats, clamped so the counter never
	// exceeds total seats (defends against double release).
	Release(ctx context.Context, target ReservationTarget, qty int) error
}

// GormInventoryRepository implements InventoryRepository using conditional
// UPDATEs on Postgres.
type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) InventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) model(target ReservationTarget) (interface{}, error) {
	switch target.Kind {
	case TargetEvent:
		return &models.Event{}, nil
	case TargetTicketType:
		return &models.TicketType{}, nil
	}
	return nil, fmt.Errorf("unknown reservation target kind %q", target.Kind)
}

func (r *GormInventoryRepository) Reserve(ctx context.Context, target ReservationTarget, qty int) error {
	model, err := r.model(target)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND remaining_seats >= ?", target.ID, qty).
		UpdateColumn("remaining_seats", gorm.Expr("remaining_seats - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("reserve failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientSeats
	}
	return nil
}

func (r *GormInventoryRepository) Release(ctx context.Context, target ReservationTarget, qty int) error {
	model, err := r.model(target)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(model).
		Where("id = ?", target.ID).
		UpdateColumn("remaining_seats", gorm.Expr("LEAST(total_seats, remaining_seats + ?)", qty))
	if res.Error != nil {
		return fmt.Errorf("release failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// notFound maps gorm's not-found to the repository sentinel.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
