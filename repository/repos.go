package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientSeats = errors.New("insufficient seats")
	ErrVoucherExhausted  = errors.New("voucher has no remaining uses")
	ErrCouponUnavailable = errors.New("coupon already used")
	ErrAlreadyDecided    = errors.New("transaction already decided")
)

// Repos bundles all repositories over one database handle. Inside
// TxManager.InTransaction every repository operates on the same transaction,
// so a multi-step flow commits or rolls back as a unit.
type Repos struct {
	Users        UserRepository
	Events       EventRepository
	Inventory    InventoryRepository
	Vouchers     VoucherRepository
	Coupons      CouponRepository
	Points       PointLedgerRepository
	Transactions TransactionRepository
}

// NewRepos builds GORM-backed repositories over db (plain handle or open tx).
func NewRepos(db *gorm.DB) Repos {
	return Repos{
		Users:        NewGormUserRepository(db),
		Events:       NewGormEventRepository(db),
		Inventory:    NewGormInventoryRepository(db),
		Vouchers:     NewGormVoucherRepository(db),
		Coupons:      NewGormCouponRepository(db),
		Points:       NewGormPointLedgerRepository(db),
		Transactions: NewGormTransactionRepository(db),
	}
}

// TxManager runs a function within a single database transaction.
type TxManager interface {
	InTransaction(ctx context.Context, fn func(r Repos) error) error
}

// GormTxManager implements TxManager using gorm's transaction support.
type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) InTransaction(ctx context.Context, fn func(r Repos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}
