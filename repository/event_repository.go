package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bettercalldoel/event-platform-api/models"
)

// EventRepository reads catalog entities referenced by the transaction engine.
type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	FindTicketType(ctx context.Context, id uuid.UUID) (*models.TicketType, error)
}

// GormEventRepository implements EventRepository using GORM.
type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

func (r *GormEventRepository) FindTicketType(ctx context.Context, id uuid.UUID) (*models.TicketType, error) {
	var tt models.TicketType
	if err := r.db.WithContext(ctx).First(&tt, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &tt, nil
}
