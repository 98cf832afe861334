package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bettercalldoel/event-platform-api/apperrors"
	"github.com/bettercalldoel/event-platform-api/models"
	"github.com/bettercalldoel/event-platform-api/repository"
	"github.com/bettercalldoel/event-platform-api/sender"
	"github.com/bettercalldoel/event-platform-api/services"
)

// --- Test doubles ---

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(topic string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *recordingSender) SendEmail(_ context.Context, to, _, _ string) (sender.SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to)
	return sender.SendResult{}, nil
}

// --- Fixture ---

type fixture struct {
	store     *memStore
	clock     *fakeClock
	publisher *recordingPublisher
	mail      *recordingSender
	svc       services.TransactionService

	customer  *models.User
	organizer *models.User
	event     *models.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	clock := newFakeClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	publisher := &recordingPublisher{}
	mail := &recordingSender{}

	customer := &models.User{ID: uuid.New(), Name: "Dina", Email: "dina@example.com", Role: models.RoleCustomer}
	organizer := &models.User{ID: uuid.New(), Name: "Org", Email: "org@example.com", Role: models.RoleOrganizer}
	event := &models.Event{
		ID:             uuid.New(),
		OrganizerID:    organizer.ID,
		Name:           "Jazz Night",
		Price:          100_000,
		TotalSeats:     50,
		RemainingSeats: 50,
		IsPublished:    true,
	}
	store.users[customer.ID] = customer
	store.users[organizer.ID] = organizer
	store.events[event.ID] = event

	logger, _ := zap.NewDevelopment()
	svc := services.NewTransactionService(services.TransactionServiceDeps{
		TxManager:      &memTxManager{store: store},
		Repos:          store.repos(),
		Mail:           mail,
		Producer:       publisher,
		LifecycleTopic: "transaction-events",
		Logger:         logger,
		Clock:          clock.Now,
	})

	return &fixture{
		store:     store,
		clock:     clock,
		publisher: publisher,
		mail:      mail,
		svc:       svc,
		customer:  customer,
		organizer: organizer,
		event:     event,
	}
}

func (f *fixture) addVoucher(amount int64, maxUses *int) *models.Voucher {
	now := f.clock.Now()
	v := &models.Voucher{
		ID:             uuid.New(),
		EventID:        f.event.ID,
		Code:           "VOUCH-" + uuid.NewString()[:8],
		DiscountAmount: amount,
		StartAt:        now.Add(-time.Hour),
		EndAt:          now.Add(24 * time.Hour),
		MaxUses:        maxUses,
	}
	f.store.vouchers[v.ID] = v
	return v
}

func (f *fixture) addCoupon(userID uuid.UUID, amount int64) *models.Coupon {
	c := &models.Coupon{
		ID:             uuid.New(),
		UserID:         userID,
		Code:           "COUP-" + uuid.NewString()[:8],
		DiscountAmount: amount,
		ExpiresAt:      f.clock.Now().Add(30 * 24 * time.Hour),
	}
	f.store.coupons[c.ID] = c
	return c
}

func (f *fixture) addPoints(userID uuid.UUID, amount int64) {
	f.store.ledger = append(f.store.ledger, models.PointLedgerEntry{
		ID:     uuid.New(),
		UserID: userID,
		Amount: amount,
		Reason: models.PointReasonAdminGrant,
	})
}

func intPtr(v int) *int { return &v }

// --- Creation ---

func TestCreateTransaction_FullStack(t *testing.T) {
	f := newFixture(t)
	voucher := f.addVoucher(30_000, intPtr(5))
	coupon := f.addCoupon(f.customer.ID, 20_000)
	f.addPoints(f.customer.ID, 50_000)

	trx, svcErr := f.svc.Create(context.Background(), f.customer.ID, &models.CreateTransactionRequest{
		EventID:     f.event.ID,
		Qty:         2,
		VoucherCode: voucher.Code,
		CouponCode:  coupon.Code,
		PointsUsed:  50_000,
	})
	require.Nil(t, svcErr)

	// 2 * 100_000 - 30_000 - 20_000 - 50_000
	assert.Equal(t, int64(200_000), trx.SubtotalAmount)
	assert.Equal(t, int64(30_000), trx.VoucherDiscount)
	assert.Equal(t, int64(20_000), trx.CouponDiscount)
	assert.Equal(t, int64(50_000), trx.PointsUsed)
	assert.Equal(t, int64(100_000), trx.TotalAmount)
	assert.Equal(t, models.StatusWaitingForPayment, trx.Status)
	assert.Equal(t, f.clock.Now().Add(2*time.Hour), trx.PaymentDueAt)

	assert.Equal(t, 48, f.store.events[f.event.ID].RemainingSeats)
	assert.Equal(t, 1, f.store.vouchers[voucher.ID].UsedCount)
	assert.NotNil(t, f.store.coupons[coupon.ID].UsedAt)

	// Grant credit plus one debit for the spend
	require.Len(t, f.store.ledger, 2)
	debit := f.store.ledger[1]
	assert.Equal(t, int64(-50_000), debit.Amount)
	assert.Equal(t, models.PointReasonUsedInTransaction, debit.Reason)
	require.NotNil(t, debit.TransactionID)
	assert.Equal(t, trx.ID, *debit.TransactionID)
}

func TestCreateTransaction_ZeroTotalCompletesImmediately(t *testing.T) {
	f := newFixture(t)
	f.event.Price = 10_000
	voucher := f.addVoucher(50_000, nil)

	trx, svcErr := f.svc.Create(context.Background(), f.customer.ID, &models.CreateTransactionRequest{
		EventID:     f.event.ID,
		Qty:         1,
		VoucherCode: voucher.Code,
	})
	require.Nil(t, svcErr)

	assert.Equal(t, int64(0), trx.TotalAmount)
	assert.Equal(t, int64(10_000), trx.VoucherDiscount)
	assert.Equal(t, models.StatusDone, trx.Status)
	require.NotNil(t, trx.DecidedAt)
	assert.Equal(t, f.clock.Now(), *trx.DecidedAt)
}

func TestCreateTransaction_UnpublishedEvent(t *testing.T) {
	f := newFixture(t)
	f.event.IsPublished = false

	_, svcErr := f.svc.Create(context.Background(), f.customer.ID, &models.CreateTransactionRequest{
		EventID: f.event.ID,
		Qty:     1,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, apperrors.ErrEventNotPublished.Code, svcErr.Code)
	assert.Equal(t, 50, f.store.events[f.event.ID].RemainingSeats)
}

func TestCreateTransaction_InsufficientSeats(t *testing.T) {
	f := newFixture(t)
	f.event.RemainingSeats = 1

	_, svcErr := f.svc.Create(context.Background(), f.customer.ID, &models.CreateTransactionRequest{
		EventID: f.event.ID,
		Qty:     2,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, apperrors.ErrInsufficientInventory.Code, svcErr.Code)
	assert.Equal(t, 1, f.store.events[f.event.ID].RemainingSeats)
}

func TestCreateTransaction_ConcurrentLastSeat(t *testing.T) {
	f := newFixture(t)
	f.event.RemainingSeats = 1

	var wg sync.WaitGroup
	results := make([]*apperrors.Error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, svcErr := f.svc.Create(context.Background(), f.customer.ID, &models.CreateTransactionRequest{
				EventID: f.event.ID,
				Qty:     1,
			})
			results[i] = svcErr
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r == nil {
			succeeded++
		} else {
			assert.Equal(t, apperrors.ErrInsufficientInventory.Code, r.Code)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, f.store.events[f.event.ID].RemainingSeats)
	assert.Len(t, f.store.transactions, 1)
}

func TestCreateTransaction_InvalidVoucherLeavesNoSideEffects(t *testing.T) {
	f := newFixture(t)
	// Voucher for a different event
	other := &models.Event{ID: uuid.New(), OrganizerID: f.organizer.ID, TotalSeats: 10, RemainingSeats: 10, IsPublished: true}
	f.store.events[other.ID] = other
	v := &models.Voucher{
		ID:             uuid.New(),
		EventID:        other.ID,
		Code:           "ELSEWHERE",
		DiscountAmount: 10_000,
		StartAt:        f.clock.Now().Add(-time.Hour),
		EndAt:          f.clock.Now().Add(time.Hour),
	}
	f.store.vouchers[v.ID] = v

	_, svcErr := f.svc.Create(context.Background(), f.customer.ID, &models.CreateTransactionRequest{
		EventID:     f.event.ID,
		Qty:         3,
		VoucherCode: "ELSEWHERE",
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, apperrors.ErrInvalidVoucher.Code, svcErr.Code)

	// The seat reservation made before the voucher check must be undone.
	assert.Equal(t, 50, f.store.events[f.event.ID].RemainingSeats)
	assert.Empty(t, f.store.transactions)
	assert.Empty(t, f.store.ledger)
}

func TestCreateTransaction_PointsSilentlyCapped(t *testing.T) {
	f := newFixture(t)
	f.addPoints(f.customer.ID, 30_000)

	trx, svcErr := f.svc.Create(context.Background(), f.customer.ID, &models.CreateTransactionRequest{
		EventID:    f.event.ID,
		Qty:        1,
		PointsUsed: 999_999,
	})
	require.Nil(t, svcErr)
	assert.Equal(t, int64(30_000), trx.PointsUsed)
	assert.Equal(t, int64(70_000), trx.TotalAmount)
}

func TestCreateTransaction_TicketTypeInventoryAndPrice(t *testing.T) {
	f := newFixture(t)
	tt := &models.TicketType{
		ID:             uuid.New(),
		EventID:        f.event.ID,
		Name:           "VIP",
		Price:          250_000,
		TotalSeats:     5,
		RemainingSeats: 5,
	}
	f.store.ticketTypes[tt.ID] = tt

	trx, svcErr := f.svc.Create(context.Background(), f.customer.ID, &models.CreateTransactionRequest{
		EventID:      f.event.ID,
		TicketTypeID: &tt.ID,
		Qty:          2,
	})
	require.Nil(t, svcErr)
	assert.Equal(t, int64(500_000), trx.SubtotalAmount)
	assert.Equal(t, 3, f.store.ticketTypes[tt.ID].RemainingSeats)
	// Event-level counter untouched; the ticket type is authoritative.
	assert.Equal(t, 50, f.store.events[f.event.ID].RemainingSeats)
}

// --- Payment proof ---

func TestUploadPaymentProof_MovesToAwaitingConfirmation(t *testing.T) {
	f := newFixture(t)
	trx := f.mustCreate(t, 1, "", "", 0)

	got, svcErr := f.svc.UploadPaymentProof(context.Background(), f.customer.ID, trx.ID, "https://proof.example.com/1.png")
	require.Nil(t, svcErr)

	assert.Equal(t, models.StatusWaitingForAdminConfirmation, got.Status)
	require.NotNil(t, got.DecisionDueAt)
	assert.Equal(t, f.clock.Now().Add(72*time.Hour), *got.DecisionDueAt)

	stored := f.store.transactions[trx.ID]
	assert.Equal(t, models.StatusWaitingForAdminConfirmation, stored.Status)
	require.NotNil(t, stored.PaymentProofURL)
}

func TestUploadPaymentProof_WrongCustomer(t *testing.T) {
	f := newFixture(t)
	trx := f.mustCreate(t, 1, "", "", 0)

	_, svcErr := f.svc.UploadPaymentProof(context.Background(), f.organizer.ID, trx.ID, "https://proof.example.com/1.png")
	require.NotNil(t, svcErr)
	assert.Equal(t, apperrors.ErrForbidden.Code, svcErr.Code)
}

func TestUploadPaymentProof_PastDeadlineExpiresTransaction(t *testing.T) {
	f := newFixture(t)
	f.addPoints(f.customer.ID, 40_000)
	trx := f.mustCreate(t, 2, "", "", 40_000)

	f.clock.Advance(2*time.Hour + time.Minute)

	_, svcErr := f.svc.UploadPaymentProof(context.Background(), f.customer.ID, trx.ID, "https://proof.example.com/late.png")
	require.NotNil(t, svcErr)
	assert.Equal(t, apperrors.ErrPaymentWindowExpired.Code, svcErr.Code)

	stored := f.store.transactions[trx.ID]
	assert.Equal(t, models.StatusExpired, stored.Status)
	require.NotNil(t, stored.DecidedAt)
	assert.Equal(t, 50, f.store.events[f.event.ID].RemainingSeats)

	// Refund credit with a three month expiry, and the spend cleared.
	refund := f.store.ledger[len(f.store.ledger)-1]
	assert.Equal(t, int64(40_000), refund.Amount)
	assert.Equal(t, models.PointReasonRollback, refund.Reason)
	require.NotNil(t, refund.ExpiresAt)
	assert.Equal(t, f.clock.Now().AddDate(0, 3, 0), *refund.ExpiresAt)
	assert.Equal(t, int64(0), stored.PointsUsed)
}

// --- Organizer decisions ---

func TestOrganizerAccept_RequiresProof(t *testing.T) {
	f := newFixture(t)
	trx := f.mustCreate(t, 1, "", "", 0)

	// Force the status forward without a proof upload.
	f.store.transactions[trx.ID].Status = models.StatusWaitingForAdminConfirmation

	_, svcErr := f.svc.OrganizerAccept(context.Background(), f.organizer.ID, trx.ID)
	require.NotNil(t, svcErr)
	assert.Equal(t, apperrors.ErrProofMissing.Code, svcErr.Code)
}

func TestOrganizerAccept_Succeeds(t *testing.T) {
	f := newFixture(t)
	trx := f.mustCreate(t, 1, "", "", 0)
	_, svcErr := f.svc.UploadPaymentProof(context.Background(), f.customer.ID, trx.ID, "https://proof.example.com/1.png")
	require.Nil(t, svcErr)

	got, svcErr := f.svc.OrganizerAccept(context.Background(), f.organizer.ID, trx.ID)
	require.Nil(t, svcErr)
	assert.Equal(t, models.StatusDone, got.Status)
	require.NotNil(t, got.DecidedAt)

	// Inventory stays consumed on acceptance.
	assert.Equal(t, 49, f.store.events[f.event.ID].RemainingSeats)
	assert.Equal(t, []string{"dina@example.com"}, f.mail.sent)
}

func TestOrganizerAccept_NotOwner(t *testing.T) {
	f := newFixture(t)
	trx := f.mustCreate(t, 1, "", "", 0)
	_, svcErr := f.svc.UploadPaymentProof(context.Background(), f.customer.ID, trx.ID, "https://proof.example.com/1.png")
	require.Nil(t, svcErr)

	stranger := uuid.New()
	_, svcErr = f.svc.OrganizerAccept(context.Background(), stranger, trx.ID)
	require.NotNil(t, svcErr)
	assert.Equal(t, apperrors.ErrForbidden.Code, svcErr.Code)
}

func TestOrganizerReject_RestoresEverything(t *testing.T) {
	f := newFixture(t)
	voucher := f.addVoucher(10_000, intPtr(3))
	coupon := f.addCoupon(f.customer.ID, 5_000)
	f.addPoints(f.customer.ID, 20_000)

	trx := f.mustCreate(t, 2, voucher.Code, coupon.Code, 20_000)
	_, svcErr := f.svc.UploadPaymentProof(context.Background(), f.customer.ID, trx.ID, "https://proof.example.com/1.png")
	require.Nil(t, svcErr)

	got, svcErr := f.svc.OrganizerReject(context.Background(), f.organizer.ID, trx.ID)
	require.Nil(t, svcErr)
	assert.Equal(t, models.StatusRejected, got.Status)

	assert.Equal(t, 50, f.store.events[f.event.ID].RemainingSeats)
	assert.Equal(t, 0, f.store.vouchers[voucher.ID].UsedCount)
	assert.Nil(t, f.store.coupons[coupon.ID].UsedAt)

	stored := f.store.transactions[trx.ID]
	assert.Nil(t, stored.CouponID)
	assert.Equal(t, int64(0), stored.CouponDiscount)
	assert.Equal(t, int64(0), stored.PointsUsed)

	// Rejecting again hits the already-decided guard.
	_, svcErr = f.svc.OrganizerReject(context.Background(), f.organizer.ID, trx.ID)
	require.NotNil(t, svcErr)
	assert.Equal(t, apperrors.ErrInvalidTransition.Code, svcErr.Code)
}

func TestOrganizerAccept_BeforeProofUploadIsInvalid(t *testing.T) {
	f := newFixture(t)
	trx := f.mustCreate(t, 1, "", "", 0)

	// Still WAITING_FOR_PAYMENT, no proof uploaded yet.
	_, svcErr := f.svc.OrganizerAccept(context.Background(), f.organizer.ID, trx.ID)
	require.NotNil(t, svcErr)
	assert.Equal(t, apperrors.ErrInvalidTransition.Code, svcErr.Code)
}

func TestRejectedCouponCanBeReused(t *testing.T) {
	f := newFixture(t)
	coupon := f.addCoupon(f.customer.ID, 5_000)

	first := f.mustCreate(t, 1, "", coupon.Code, 0)
	_, svcErr := f.svc.UploadPaymentProof(context.Background(), f.customer.ID, first.ID, "https://proof.example.com/1.png")
	require.Nil(t, svcErr)
	_, svcErr = f.svc.OrganizerReject(context.Background(), f.organizer.ID, first.ID)
	require.Nil(t, svcErr)

	second := f.mustCreate(t, 1, "", coupon.Code, 0)
	assert.Equal(t, int64(5_000), second.CouponDiscount)
	require.NotNil(t, f.store.coupons[coupon.ID].UsedAt)
}

func TestVoucherExhaustionFailsCreationCleanly(t *testing.T) {
	f := newFixture(t)
	voucher := f.addVoucher(10_000, intPtr(1))

	f.mustCreate(t, 1, voucher.Code, "", 0)

	_, svcErr := f.svc.Create(context.Background(), f.customer.ID, &models.CreateTransactionRequest{
		EventID:     f.event.ID,
		Qty:         1,
		VoucherCode: voucher.Code,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, apperrors.ErrInvalidVoucher.Code, svcErr.Code)

	// The failed attempt must not leak a seat reservation.
	assert.Equal(t, 49, f.store.events[f.event.ID].RemainingSeats)
	assert.Equal(t, 1, f.store.vouchers[voucher.ID].UsedCount)
}

// --- Sweeping ---

func TestExpireOverduePayments(t *testing.T) {
	f := newFixture(t)
	t1 := f.mustCreate(t, 1, "", "", 0)
	t2 := f.mustCreate(t, 1, "", "", 0)

	// Proof on t2 moves it out of the expiry set.
	_, svcErr := f.svc.UploadPaymentProof(context.Background(), f.customer.ID, t2.ID, "https://proof.example.com/2.png")
	require.Nil(t, svcErr)

	f.clock.Advance(3 * time.Hour)

	expired, err := f.svc.ExpireOverduePayments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.Equal(t, models.StatusExpired, f.store.transactions[t1.ID].Status)
	assert.Equal(t, models.StatusWaitingForAdminConfirmation, f.store.transactions[t2.ID].Status)

	// A second pass finds nothing to do.
	expired, err = f.svc.ExpireOverduePayments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
}

// faultyClaimTransactions errors the rollback claim for one transaction ID,
// standing in for a row-level failure such as a lock timeout.
type faultyClaimTransactions struct {
	repository.TransactionRepository
	failID uuid.UUID
}

func (f *faultyClaimTransactions) ClaimForRollback(ctx context.Context, id uuid.UUID, fromStatus, toStatus models.TransactionStatus, at time.Time) (bool, error) {
	if id == f.failID {
		return false, errors.New("lock timeout")
	}
	return f.TransactionRepository.ClaimForRollback(ctx, id, fromStatus, toStatus, at)
}

type faultyTxManager struct {
	inner  *memTxManager
	mutate func(repository.Repos) repository.Repos
}

func (m *faultyTxManager) InTransaction(ctx context.Context, fn func(r repository.Repos) error) error {
	return m.inner.InTransaction(ctx, func(r repository.Repos) error {
		return fn(m.mutate(r))
	})
}

func TestExpireOverduePayments_RowFailureDoesNotAbortBatch(t *testing.T) {
	f := newFixture(t)
	t1 := f.mustCreate(t, 1, "", "", 0)
	t2 := f.mustCreate(t, 1, "", "", 0)

	f.clock.Advance(3 * time.Hour)

	faulty := services.NewTransactionService(services.TransactionServiceDeps{
		TxManager: &faultyTxManager{
			inner: &memTxManager{store: f.store},
			mutate: func(r repository.Repos) repository.Repos {
				r.Transactions = &faultyClaimTransactions{TransactionRepository: r.Transactions, failID: t1.ID}
				return r
			},
		},
		Repos:          f.store.repos(),
		Mail:           f.mail,
		Producer:       f.publisher,
		LifecycleTopic: "transaction-events",
		Clock:          f.clock.Now,
	})

	expired, err := faulty.ExpireOverduePayments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.Equal(t, models.StatusWaitingForPayment, f.store.transactions[t1.ID].Status)
	assert.Equal(t, models.StatusExpired, f.store.transactions[t2.ID].Status)

	// The failed row is picked up again on the next pass once the fault
	// clears.
	expired, err = f.svc.ExpireOverduePayments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.Equal(t, models.StatusExpired, f.store.transactions[t1.ID].Status)
}

func TestCancelOverdueConfirmations(t *testing.T) {
	f := newFixture(t)
	trx := f.mustCreate(t, 2, "", "", 0)
	_, svcErr := f.svc.UploadPaymentProof(context.Background(), f.customer.ID, trx.ID, "https://proof.example.com/1.png")
	require.Nil(t, svcErr)

	f.clock.Advance(73 * time.Hour)

	canceled, err := f.svc.CancelOverdueConfirmations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, canceled)
	assert.Equal(t, models.StatusCanceled, f.store.transactions[trx.ID].Status)
	assert.Equal(t, 50, f.store.events[f.event.ID].RemainingSeats)

	canceled, err = f.svc.CancelOverdueConfirmations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, canceled)
}

// --- Listing ---

func TestListForOrganizer_FiltersByStatus(t *testing.T) {
	f := newFixture(t)
	t1 := f.mustCreate(t, 1, "", "", 0)
	t2 := f.mustCreate(t, 1, "", "", 0)
	_, svcErr := f.svc.UploadPaymentProof(context.Background(), f.customer.ID, t2.ID, "https://proof.example.com/2.png")
	require.Nil(t, svcErr)

	status := models.StatusWaitingForPayment
	list, svcErr2 := f.svc.ListForOrganizer(context.Background(), f.organizer.ID, nil, &status)
	require.Nil(t, svcErr2)
	require.Len(t, list, 1)
	assert.Equal(t, t1.ID, list[0].ID)
}

func (f *fixture) mustCreate(t *testing.T, qty int, voucherCode, couponCode string, points int64) *models.Transaction {
	t.Helper()
	trx, svcErr := f.svc.Create(context.Background(), f.customer.ID, &models.CreateTransactionRequest{
		EventID:     f.event.ID,
		Qty:         qty,
		VoucherCode: voucherCode,
		CouponCode:  couponCode,
		PointsUsed:  points,
	})
	require.Nil(t, svcErr)
	return trx
}
