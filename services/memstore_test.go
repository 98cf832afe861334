package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bettercalldoel/event-platform-api/models"
	"github.com/bettercalldoel/event-platform-api/repository"
)

// memStore is an in-memory stand-in for the Postgres repositories. Guarded
// updates mirror the real conditional UPDATE semantics so concurrency tests
// exercise the same win/lose behavior as the database.
type memStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*models.User
	events       map[uuid.UUID]*models.Event
	ticketTypes  map[uuid.UUID]*models.TicketType
	vouchers     map[uuid.UUID]*models.Voucher
	coupons      map[uuid.UUID]*models.Coupon
	ledger       []models.PointLedgerEntry
	transactions map[uuid.UUID]*models.Transaction
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uuid.UUID]*models.User),
		events:       make(map[uuid.UUID]*models.Event),
		ticketTypes:  make(map[uuid.UUID]*models.TicketType),
		vouchers:     make(map[uuid.UUID]*models.Voucher),
		coupons:      make(map[uuid.UUID]*models.Coupon),
		transactions: make(map[uuid.UUID]*models.Transaction),
	}
}

func (s *memStore) repos() repository.Repos {
	return repository.Repos{
		Users:        &memUsers{s},
		Events:       &memEvents{s},
		Inventory:    &memInventory{s},
		Vouchers:     &memVouchers{s},
		Coupons:      &memCoupons{s},
		Points:       &memPoints{s},
		Transactions: &memTransactions{s},
	}
}

type storeSnapshot struct {
	users        map[uuid.UUID]*models.User
	events       map[uuid.UUID]*models.Event
	ticketTypes  map[uuid.UUID]*models.TicketType
	vouchers     map[uuid.UUID]*models.Voucher
	coupons      map[uuid.UUID]*models.Coupon
	ledger       []models.PointLedgerEntry
	transactions map[uuid.UUID]*models.Transaction
}

func (s *memStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := storeSnapshot{
		users:        make(map[uuid.UUID]*models.User, len(s.users)),
		events:       make(map[uuid.UUID]*models.Event, len(s.events)),
		ticketTypes:  make(map[uuid.UUID]*models.TicketType, len(s.ticketTypes)),
		vouchers:     make(map[uuid.UUID]*models.Voucher, len(s.vouchers)),
		coupons:      make(map[uuid.UUID]*models.Coupon, len(s.coupons)),
		ledger:       make([]models.PointLedgerEntry, len(s.ledger)),
		transactions: make(map[uuid.UUID]*models.Transaction, len(s.transactions)),
	}
	for k, v := range s.users {
		u := *v
		snap.users[k] = &u
	}
	for k, v := range s.events {
		e := *v
		snap.events[k] = &e
	}
	for k, v := range s.ticketTypes {
		tt := *v
		snap.ticketTypes[k] = &tt
	}
	for k, v := range s.vouchers {
		vo := *v
		snap.vouchers[k] = &vo
	}
	for k, v := range s.coupons {
		c := *v
		snap.coupons[k] = &c
	}
	copy(snap.ledger, s.ledger)
	for k, v := range s.transactions {
		t := *v
		snap.transactions[k] = &t
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.events = snap.events
	s.ticketTypes = snap.ticketTypes
	s.vouchers = snap.vouchers
	s.coupons = snap.coupons
	s.ledger = snap.ledger
	s.transactions = snap.transactions
}

// memTxManager serializes transactions and restores the pre-transaction
// snapshot when the callback fails, the way the real database discards an
// aborted transaction's writes.
type memTxManager struct {
	store *memStore
	txMu  sync.Mutex
}

func (m *memTxManager) InTransaction(_ context.Context, fn func(r repository.Repos) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snap := m.store.snapshot()
	if err := fn(m.store.repos()); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// --- Users ---

type memUsers struct{ s *memStore }

func (m *memUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// --- Events ---

type memEvents struct{ s *memStore }

func (m *memEvents) FindByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	e, ok := m.s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memEvents) FindTicketType(_ context.Context, id uuid.UUID) (*models.TicketType, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	tt, ok := m.s.ticketTypes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *tt
	return &cp, nil
}

// --- Inventory ---

type memInventory struct{ s *memStore }

func (m *memInventory) Reserve(_ context.Context, target repository.ReservationTarget, qty int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	switch target.Kind {
	case repository.TargetEvent:
		e, ok := m.s.events[target.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if e.RemainingSeats < qty {
			return repository.ErrInsufficientSeats
		}
		e.RemainingSeats -= qty
	case repository.TargetTicketType:
		tt, ok := m.s.ticketTypes[target.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if tt.RemainingSeats < qty {
			return repository.ErrInsufficientSeats
		}
		tt.RemainingSeats -= qty
	}
	return nil
}

func (m *memInventory) Release(_ context.Context, target repository.ReservationTarget, qty int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	switch target.Kind {
	case repository.TargetEvent:
		e, ok := m.s.events[target.ID]
		if !ok {
			return repository.ErrNotFound
		}
		e.RemainingSeats += qty
		if e.RemainingSeats > e.TotalSeats {
			e.RemainingSeats = e.TotalSeats
		}
	case repository.TargetTicketType:
		tt, ok := m.s.ticketTypes[target.ID]
		if !ok {
			return repository.ErrNotFound
		}
		tt.RemainingSeats += qty
		if tt.RemainingSeats > tt.TotalSeats {
			tt.RemainingSeats = tt.TotalSeats
		}
	}
	return nil
}

// --- Vouchers ---

type memVouchers struct{ s *memStore }

func (m *memVouchers) Create(_ context.Context, v *models.Voucher) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	cp := *v
	m.s.vouchers[v.ID] = &cp
	return nil
}

func (m *memVouchers) FindByCode(_ context.Context, code string) (*models.Voucher, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, v := range m.s.vouchers {
		if v.Code == code {
			cp := *v
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memVouchers) Redeem(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	v, ok := m.s.vouchers[id]
	if !ok {
		return repository.ErrNotFound
	}
	if v.MaxUses != nil && v.UsedCount >= *v.MaxUses {
		return repository.ErrVoucherExhausted
	}
	v.UsedCount++
	return nil
}

func (m *memVouchers) Unredeem(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	v, ok := m.s.vouchers[id]
	if !ok {
		return repository.ErrNotFound
	}
	if v.UsedCount > 0 {
		v.UsedCount--
	}
	return nil
}

// --- Coupons ---

type memCoupons struct{ s *memStore }

func (m *memCoupons) Create(_ context.Context, c *models.Coupon) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	m.s.coupons[c.ID] = &cp
	return nil
}

func (m *memCoupons) FindByCode(_ context.Context, code string) (*models.Coupon, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, c := range m.s.coupons {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCoupons) MarkUsed(_ context.Context, id uuid.UUID, at time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.coupons[id]
	if !ok {
		return repository.ErrNotFound
	}
	if c.UsedAt != nil {
		return repository.ErrCouponUnavailable
	}
	t := at
	c.UsedAt = &t
	return nil
}

func (m *memCoupons) Release(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.coupons[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.UsedAt = nil
	return nil
}

// --- Points ---

type memPoints struct{ s *memStore }

func (m *memPoints) Append(_ context.Context, entry *models.PointLedgerEntry) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	m.s.ledger = append(m.s.ledger, *entry)
	return nil
}

func (m *memPoints) AvailableBalance(_ context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var sum int64
	for _, e := range m.s.ledger {
		if e.UserID != userID {
			continue
		}
		if e.ExpiresAt != nil && !e.ExpiresAt.After(at) {
			continue
		}
		sum += e.Amount
	}
	return sum, nil
}

// --- Transactions ---

type memTransactions struct{ s *memStore }

func (m *memTransactions) Create(_ context.Context, trx *models.Transaction) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if trx.ID == uuid.Nil {
		trx.ID = uuid.New()
	}
	trx.CreatedAt = time.Now()
	cp := *trx
	m.s.transactions[trx.ID] = &cp
	return nil
}

func (m *memTransactions) FindByID(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.transactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTransactions) SetPaymentProof(_ context.Context, id uuid.UUID, proofURL string, uploadedAt, decisionDueAt time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.transactions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if t.Status != models.StatusWaitingForPayment {
		return repository.ErrAlreadyDecided
	}
	url := proofURL
	up := uploadedAt
	due := decisionDueAt
	t.PaymentProofURL = &url
	t.PaymentProofUploadedAt = &up
	t.DecisionDueAt = &due
	t.Status = models.StatusWaitingForAdminConfirmation
	return nil
}

func (m *memTransactions) MarkDone(_ context.Context, id uuid.UUID, at time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.transactions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if t.Status != models.StatusWaitingForAdminConfirmation || t.DecidedAt != nil {
		return repository.ErrAlreadyDecided
	}
	decided := at
	t.Status = models.StatusDone
	t.DecidedAt = &decided
	return nil
}

func (m *memTransactions) ClaimForRollback(_ context.Context, id uuid.UUID, fromStatus, toStatus models.TransactionStatus, at time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.transactions[id]
	if !ok {
		return false, nil
	}
	if t.Status != fromStatus || t.DecidedAt != nil {
		return false, nil
	}
	decided := at
	t.Status = toStatus
	t.DecidedAt = &decided
	t.DecisionDueAt = nil
	return true, nil
}

func (m *memTransactions) ClearCoupon(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.transactions[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.CouponID = nil
	t.CouponDiscount = 0
	return nil
}

func (m *memTransactions) ClearPointsUsed(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.transactions[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.PointsUsed = 0
	return nil
}

func (m *memTransactions) FindByCustomer(_ context.Context, customerID uuid.UUID) ([]models.Transaction, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.Transaction
	for _, t := range m.s.transactions {
		if t.CustomerID == customerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTransactions) FindByOrganizer(_ context.Context, organizerID uuid.UUID, eventID *uuid.UUID, status *models.TransactionStatus) ([]models.Transaction, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.Transaction
	for _, t := range m.s.transactions {
		e, ok := m.s.events[t.EventID]
		if !ok || e.OrganizerID != organizerID {
			continue
		}
		if eventID != nil && t.EventID != *eventID {
			continue
		}
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (m *memTransactions) FindPaymentOverdue(_ context.Context, now time.Time) ([]models.Transaction, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.Transaction
	for _, t := range m.s.transactions {
		if t.Status == models.StatusWaitingForPayment && t.PaymentProofURL == nil && t.PaymentDueAt.Before(now) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTransactions) FindDecisionOverdue(_ context.Context, now time.Time) ([]models.Transaction, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.Transaction
	for _, t := range m.s.transactions {
		if t.Status == models.StatusWaitingForAdminConfirmation && t.DecisionDueAt != nil && t.DecisionDueAt.Before(now) {
			out = append(out, *t)
		}
	}
	return out, nil
}
