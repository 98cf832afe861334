package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole distinguishes customers from event organizers.
type UserRole string

const (
	RoleCustomer  UserRole = "customer"
	RoleOrganizer UserRole = "organizer"
	RoleAdmin     UserRole = "admin"
)

// User is the minimal identity record the transaction engine needs: ownership
// checks and notification addressing. Registration/login live elsewhere.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(128);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	ReferralCode string    `gorm:"type:varchar(16);uniqueIndex" json:"referral_code"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
