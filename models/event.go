package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is the sellable catalog entity. RemainingSeats is authoritative
// inventory unless the purchase targets a TicketType; both counters are only
// ever mutated through conditional updates in the repository layer.
type Event struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizerID    uuid.UUID `gorm:"type:uuid;index;not null" json:"organizer_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Location       string    `gorm:"type:varchar(255)" json:"location"`
	StartAt        time.Time `json:"start_at"`
	Price          int64     `gorm:"not null;default:0" json:"price"`
	TotalSeats     int       `gorm:"not null" json:"total_seats"`
	RemainingSeats int       `gorm:"not null" json:"remaining_seats"`
	IsPublished    bool      `gorm:"not null;default:false" json:"is_published"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TicketType is an optional sub-inventory of an Event (e.g. VIP vs regular).
// When a purchase names one, it is the authoritative inventory and price
// source for that purchase.
type TicketType struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID        uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	Name           string    `gorm:"type:varchar(128);not null" json:"name"`
	Price          int64     `gorm:"not null;default:0" json:"price"`
	TotalSeats     int       `gorm:"not null" json:"total_seats"`
	RemainingSeats int       `gorm:"not null" json:"remaining_seats"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
