package models

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a user-scoped, single-use discount code. UsedAt nil means
// available; marking it used is a compare-and-set on that field. A rolled-back
// transaction releases the coupon so it can back a new one.
type Coupon struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Code           string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	DiscountAmount int64      `gorm:"not null" json:"discount_amount"`
	ExpiresAt      time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt         *time.Time `json:"used_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Expired reports whether the coupon is past its expiry at the given instant.
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}

// IssueCouponRequest is the admin payload for issuing a coupon to a user.
type IssueCouponRequest struct {
	UserID         uuid.UUID `json:"user_id" binding:"required"`
	Code           string    `json:"code" binding:"required,min=3,max=64"`
	DiscountAmount int64     `json:"discount_amount" binding:"required,gt=0"`
	ExpiresAt      time.Time `json:"expires_at" binding:"required"`
}
