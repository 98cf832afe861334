package models

import (
	"time"

	"github.com/google/uuid"
)

// Ledger entry reasons.
const (
	PointReasonUsedInTransaction = "USED_IN_TRANSACTION"
	PointReasonRollback          = "ROLLBACK"
	PointReasonReferralReward    = "REFERRAL_REWARD"
	PointReasonAdminGrant        = "ADMIN_GRANT"
)

// PointLedgerEntry is an append-only signed point record. Negative amounts are
// debits, positive are credits. Balance is the sum of non-expired entries;
// rollback never edits a debit, it appends a compensating credit.
type PointLedgerEntry struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Amount        int64      `gorm:"not null" json:"amount"`
	Reason        string     `gorm:"type:varchar(64)" json:"reason"`
	ExpiresAt     *time.Time `json:"expires_at"`
	TransactionID *uuid.UUID `gorm:"type:uuid;index" json:"transaction_id"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// GrantPointsRequest is the admin payload for crediting points to a user.
type GrantPointsRequest struct {
	UserID    uuid.UUID  `json:"user_id" binding:"required"`
	Amount    int64      `json:"amount" binding:"required,gt=0"`
	Reason    string     `json:"reason"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// PointBalanceResponse reports a customer's spendable balance.
type PointBalanceResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Balance int64     `json:"balance"`
	AsOf    time.Time `json:"as_of"`
}
