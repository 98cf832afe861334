package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionStatus is the lifecycle state of a purchase.
type TransactionStatus string

const (
	StatusWaitingForPayment           TransactionStatus = "WAITING_FOR_PAYMENT"
	StatusWaitingForAdminConfirmation TransactionStatus = "WAITING_FOR_ADMIN_CONFIRMATION"
	StatusDone                        TransactionStatus = "DONE"
	StatusRejected                    TransactionStatus = "REJECTED"
	StatusExpired                     TransactionStatus = "EXPIRED"
	StatusCanceled                    TransactionStatus = "CANCELED"
)

// Terminal reports whether no further transitions are permitted from s.
func (s TransactionStatus) Terminal() bool {
	switch s {
	case StatusDone, StatusRejected, StatusExpired, StatusCanceled:
		return true
	}
	return false
}

// Transaction is the aggregate root of the purchase lifecycle. Amounts are
// frozen at creation; DecidedAt is set exactly once, when the transaction
// reaches a terminal state, and doubles as the rollback idempotency guard.
type Transaction struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"customer_id"`
	EventID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"event_id"`
	TicketTypeID *uuid.UUID `gorm:"type:uuid" json:"ticket_type_id"`
	Qty          int        `gorm:"not null" json:"qty"`

	SubtotalAmount  int64      `gorm:"not null" json:"subtotal_amount"`
	VoucherID       *uuid.UUID `gorm:"type:uuid" json:"voucher_id"`
	VoucherDiscount int64      `gorm:"not null;default:0" json:"voucher_discount"`
	CouponID        *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"coupon_id"`
	CouponDiscount  int64      `gorm:"not null;default:0" json:"coupon_discount"`
	PointsUsed      int64      `gorm:"not null;default:0" json:"points_used"`
	TotalAmount     int64      `gorm:"not null" json:"total_amount"`

	Status                 TransactionStatus `gorm:"type:varchar(40);index;not null" json:"status"`
	PaymentDueAt           time.Time         `gorm:"not null" json:"payment_due_at"`
	PaymentProofURL        *string           `gorm:"type:text" json:"payment_proof_url"`
	PaymentProofUploadedAt *time.Time        `json:"payment_proof_uploaded_at"`
	DecisionDueAt          *time.Time        `json:"decision_due_at"`
	DecidedAt              *time.Time        `json:"decided_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CreateTransactionRequest is the customer payload for starting a purchase.
type CreateTransactionRequest struct {
	EventID      uuid.UUID  `json:"event_id" binding:"required"`
	TicketTypeID *uuid.UUID `json:"ticket_type_id"`
	Qty          int        `json:"qty" binding:"required,min=1"`
	VoucherCode  string     `json:"voucher_code"`
	CouponCode   string     `json:"coupon_code"`
	PointsUsed   int64      `json:"points_used" binding:"gte=0"`
}

// CreateTransactionResponse is the projection returned on creation.
type CreateTransactionResponse struct {
	ID           uuid.UUID         `json:"id"`
	Status       TransactionStatus `json:"status"`
	PaymentDueAt time.Time         `json:"payment_due_at"`
	TotalAmount  int64             `json:"total_amount"`
}

// UploadPaymentProofRequest carries the claimed proof-of-payment URL.
type UploadPaymentProofRequest struct {
	PaymentProofURL string `json:"payment_proof_url" binding:"required,url"`
}

// TransactionEvent is published to Kafka/SNS on lifecycle transitions.
type TransactionEvent struct {
	EventType     string            `json:"event_type"`
	TransactionID string            `json:"transaction_id"`
	CustomerID    string            `json:"customer_id"`
	EventID       string            `json:"event_id"`
	Status        TransactionStatus `json:"status"`
	TotalAmount   int64             `json:"total_amount"`
	Timestamp     time.Time         `json:"timestamp"`
}
