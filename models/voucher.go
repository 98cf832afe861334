package models

import (
	"time"

	"github.com/google/uuid"
)

// Voucher is an event-scoped, multi-use discount code with an activity window.
// MaxUses nil means unlimited. UsedCount never exceeds MaxUses; the guard is a
// conditional update, not an application-level check.
type Voucher struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID        uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	Code           string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	DiscountAmount int64     `gorm:"not null" json:"discount_amount"`
	StartAt        time.Time `gorm:"not null" json:"start_at"`
	EndAt          time.Time `gorm:"not null" json:"end_at"`
	MaxUses        *int      `json:"max_uses"`
	UsedCount      int       `gorm:"not null;default:0" json:"used_count"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ActiveAt reports whether the voucher window covers the given instant.
func (v *Voucher) ActiveAt(now time.Time) bool {
	return !v.StartAt.After(now) && !v.EndAt.Before(now)
}

// Exhausted reports whether the voucher has no remaining uses.
func (v *Voucher) Exhausted() bool {
	return v.MaxUses != nil && v.UsedCount >= *v.MaxUses
}

// CreateVoucherRequest is the organizer payload for creating an event voucher.
type CreateVoucherRequest struct {
	Code           string    `json:"code" binding:"required,min=3,max=64"`
	DiscountAmount int64     `json:"discount_amount" binding:"required,gt=0"`
	StartAt        time.Time `json:"start_at" binding:"required"`
	EndAt          time.Time `json:"end_at" binding:"required"`
	MaxUses        *int      `json:"max_uses" binding:"omitempty,gt=0"`
}
