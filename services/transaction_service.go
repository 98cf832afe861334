package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bettercalldoel/event-platform-api/apperrors"
	"github.com/bettercalldoel/event-platform-api/models"
	"github.com/bettercalldoel/event-platform-api/repository"
	"github.com/bettercalldoel/event-platform-api/sender"
)

const (
	defaultPaymentWindow  = 2 * time.Hour
	defaultDecisionWindow = 72 * time.Hour

	// Points refunded on rollback expire after this many months.
	pointRefundExpiryMonths = 3
)

// EventPublisher is the broker surface lifecycle events go out on.
// Satisfied by kafka.ProducerAPI.
type EventPublisher interface {
	Publish(topic string, message []byte) error
}

// SNSPublisher mirrors the SNS client surface, kept local so the service
// does not depend on the aws package directly.
type SNSPublisher interface {
	Publish(ctx context.Context, topicArn string, message []byte) error
}

// TransactionService drives the purchase lifecycle: creation with inventory
// and discount side effects, payment proof, organizer decisions, and the
// compensating rollback into a terminal state.
type TransactionService interface {
	Create(ctx context.Context, customerID uuid.UUID, req *models.CreateTransactionRequest) (*models.Transaction, *apperrors.Error)
	UploadPaymentProof(ctx context.Context, customerID, transactionID uuid.UUID, proofURL string) (*models.Transaction, *apperrors.Error)
	OrganizerAccept(ctx context.Context, organizerID, transactionID uuid.UUID) (*models.Transaction, *apperrors.Error)
	OrganizerReject(ctx context.Context, organizerID, transactionID uuid.UUID) (*models.Transaction, *apperrors.Error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Transaction, *apperrors.Error)
	ListForOrganizer(ctx context.Context, organizerID uuid.UUID, eventID *uuid.UUID, status *models.TransactionStatus) ([]models.Transaction, *apperrors.Error)
	ExpireOverduePayments(ctx context.Context) (int, error)
	CancelOverdueConfirmations(ctx context.Context) (int, error)
}

// TransactionServiceDeps bundles the service's collaborators. Producer, SNS
// and Mail are optional; nil disables that channel. Clock and the windows
// default when zero.
type TransactionServiceDeps struct {
	TxManager      repository.TxManager
	Repos          repository.Repos
	Mail           sender.EmailSender
	Producer       EventPublisher
	LifecycleTopic string
	SNS            SNSPublisher
	SNSTopicARN    string
	Logger         *zap.Logger
	Clock          func() time.Time
	PaymentWindow  time.Duration
	DecisionWindow time.Duration
}

type transactionService struct {
	txm            repository.TxManager
	repos          repository.Repos
	mail           sender.EmailSender
	producer       EventPublisher
	lifecycleTopic string
	sns            SNSPublisher
	snsTopicARN    string
	logger         *zap.Logger
	clock          func() time.Time
	paymentWindow  time.Duration
	decisionWindow time.Duration
}

func NewTransactionService(d TransactionServiceDeps) TransactionService {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.PaymentWindow == 0 {
		d.PaymentWindow = defaultPaymentWindow
	}
	if d.DecisionWindow == 0 {
		d.DecisionWindow = defaultDecisionWindow
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &transactionService{
		txm:            d.TxManager,
		repos:          d.Repos,
		mail:           d.Mail,
		producer:       d.Producer,
		lifecycleTopic: d.LifecycleTopic,
		sns:            d.SNS,
		snsTopicARN:    d.SNSTopicARN,
		logger:         d.Logger,
		clock:          d.Clock,
		paymentWindow:  d.PaymentWindow,
		decisionWindow: d.DecisionWindow,
	}
}

// Create reserves inventory, applies the discount stack and persists the
// transaction. Every step runs inside one database transaction, so a failure
// at any point leaves no partial side effects behind.
func (s *transactionService) Create(ctx context.Context, customerID uuid.UUID, req *models.CreateTransactionRequest) (*models.Transaction, *apperrors.Error) {
	now := s.clock()
	var created *models.Transaction

	err := s.txm.InTransaction(ctx, func(r repository.Repos) error {
		event, err := r.Events.FindByID(ctx, req.EventID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}
		if !event.IsPublished {
			return apperrors.ErrEventNotPublished
		}

		unitPrice := event.Price
		var ticketType *models.TicketType
		if req.TicketTypeID != nil {
			ticketType, err = r.Events.FindTicketType(ctx, *req.TicketTypeID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperrors.New(400, "Ticket type not found", nil)
				}
				return err
			}
			if ticketType.EventID != event.ID {
				return apperrors.New(400, "Ticket type does not belong to event", nil)
			}
			unitPrice = ticketType.Price
		}

		target := repository.EventTarget(event.ID)
		if ticketType != nil {
			target = repository.TicketTypeTarget(ticketType.ID)
		}
		if err := r.Inventory.Reserve(ctx, target, req.Qty); err != nil {
			if errors.Is(err, repository.ErrInsufficientSeats) {
				return apperrors.ErrInsufficientInventory
			}
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		subtotal := unitPrice * int64(req.Qty)

		var voucher *models.Voucher
		if req.VoucherCode != "" {
			voucher, err = r.Vouchers.FindByCode(ctx, req.VoucherCode)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperrors.ErrInvalidVoucher
				}
				return err
			}
		}

		var coupon *models.Coupon
		if req.CouponCode != "" {
			coupon, err = r.Coupons.FindByCode(ctx, req.CouponCode)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperrors.ErrInvalidCoupon
				}
				return err
			}
		}

		available, err := r.Points.AvailableBalance(ctx, customerID, now)
		if err != nil {
			return err
		}

		breakdown, appErr := ApplyDiscountStack(subtotal, event.ID, customerID, voucher, coupon, req.PointsUsed, available, now)
		if appErr != nil {
			return appErr
		}

		// Redemptions are guarded updates; a concurrent transaction that
		// grabbed the last voucher use or the coupon loses here, and the
		// surrounding database transaction undoes the seat reservation.
		if voucher != nil {
			if err := r.Vouchers.Redeem(ctx, voucher.ID); err != nil {
				if errors.Is(err, repository.ErrVoucherExhausted) {
					return apperrors.ErrInvalidVoucher
				}
				return err
			}
		}
		if coupon != nil {
			if err := r.Coupons.MarkUsed(ctx, coupon.ID, now); err != nil {
				if errors.Is(err, repository.ErrCouponUnavailable) {
					return apperrors.ErrInvalidCoupon
				}
				return err
			}
		}

		trx := &models.Transaction{
			ID:              uuid.New(),
			CustomerID:      customerID,
			EventID:         event.ID,
			Qty:             req.Qty,
			SubtotalAmount:  subtotal,
			VoucherDiscount: breakdown.VoucherDiscount,
			CouponDiscount:  breakdown.CouponDiscount,
			PointsUsed:      breakdown.PointsUsed,
			TotalAmount:     breakdown.Total,
		}
		if ticketType != nil {
			trx.TicketTypeID = &ticketType.ID
		}
		if voucher != nil {
			trx.VoucherID = &voucher.ID
		}
		if coupon != nil {
			trx.CouponID = &coupon.ID
		}

		if breakdown.PointsUsed > 0 {
			entry := &models.PointLedgerEntry{
				UserID:        customerID,
				Amount:        -breakdown.PointsUsed,
				Reason:        models.PointReasonUsedInTransaction,
				TransactionID: &trx.ID,
			}
			if err := r.Points.Append(ctx, entry); err != nil {
				return err
			}
		}

		if breakdown.Total == 0 {
			// Fully covered by discounts, nothing left to pay.
			decidedAt := now
			trx.Status = models.StatusDone
			trx.PaymentDueAt = now
			trx.DecidedAt = &decidedAt
		} else {
			trx.Status = models.StatusWaitingForPayment
			trx.PaymentDueAt = now.Add(s.paymentWindow)
		}

		if err := r.Transactions.Create(ctx, trx); err != nil {
			return err
		}
		created = trx
		return nil
	})

	if err != nil {
		return nil, s.toAppError(err, "transaction create failed")
	}

	s.logger.Info("transaction created",
		zap.String("transaction_id", created.ID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("status", string(created.Status)),
		zap.Int64("total_amount", created.TotalAmount))
	s.publishLifecycle(ctx, "transaction_created", created)
	return created, nil
}

// UploadPaymentProof attaches the proof URL and moves the transaction to
// WAITING_FOR_ADMIN_CONFIRMATION. An upload past the payment deadline does
// not succeed late; it triggers the expiry rollback immediately and reports
// the window as expired.
func (s *transactionService) UploadPaymentProof(ctx context.Context, customerID, transactionID uuid.UUID, proofURL string) (*models.Transaction, *apperrors.Error) {
	now := s.clock()

	trx, err := s.repos.Transactions.FindByID(ctx, transactionID)
	if err != nil {
		return nil, s.toAppError(err, "load transaction failed")
	}
	if trx.CustomerID != customerID {
		return nil, apperrors.ErrForbidden
	}
	if trx.Status != models.StatusWaitingForPayment {
		return nil, apperrors.ErrInvalidTransition
	}

	if now.After(trx.PaymentDueAt) {
		claimed, rbErr := s.rollback(ctx, transactionID, models.StatusExpired)
		if rbErr != nil {
			s.logger.Error("deadline rollback failed",
				zap.String("transaction_id", transactionID.String()),
				zap.Error(rbErr))
		} else if claimed {
			trx.Status = models.StatusExpired
			s.publishLifecycle(ctx, "transaction_expired", trx)
		}
		return nil, apperrors.ErrPaymentWindowExpired
	}

	decisionDueAt := now.Add(s.decisionWindow)
	if err := s.repos.Transactions.SetPaymentProof(ctx, transactionID, proofURL, now, decisionDueAt); err != nil {
		if errors.Is(err, repository.ErrAlreadyDecided) {
			return nil, apperrors.ErrInvalidTransition
		}
		return nil, s.toAppError(err, "set payment proof failed")
	}

	trx.Status = models.StatusWaitingForAdminConfirmation
	trx.PaymentProofURL = &proofURL
	trx.PaymentProofUploadedAt = &now
	trx.DecisionDueAt = &decisionDueAt

	s.logger.Info("payment proof uploaded",
		zap.String("transaction_id", transactionID.String()),
		zap.Time("decision_due_at", decisionDueAt))
	s.publishLifecycle(ctx, "payment_proof_uploaded", trx)
	return trx, nil
}

// OrganizerAccept marks the transaction DONE. Only the organizer who owns
// the event may decide, and a transaction without payment proof cannot be
// accepted.
func (s *transactionService) OrganizerAccept(ctx context.Context, organizerID, transactionID uuid.UUID) (*models.Transaction, *apperrors.Error) {
	now := s.clock()

	trx, appErr := s.loadForDecision(ctx, organizerID, transactionID)
	if appErr != nil {
		return nil, appErr
	}
	if trx.PaymentProofURL == nil {
		return nil, apperrors.ErrProofMissing
	}

	if err := s.repos.Transactions.MarkDone(ctx, transactionID, now); err != nil {
		if errors.Is(err, repository.ErrAlreadyDecided) {
			return nil, apperrors.ErrInvalidTransition
		}
		return nil, s.toAppError(err, "mark done failed")
	}

	trx.Status = models.StatusDone
	trx.DecidedAt = &now

	s.logger.Info("transaction accepted",
		zap.String("transaction_id", transactionID.String()),
		zap.String("organizer_id", organizerID.String()))
	s.notifyDecision(ctx, trx, "Your tickets are confirmed",
		"Your payment was verified and the transaction is complete. See you at the event!")
	s.publishLifecycle(ctx, "transaction_accepted", trx)
	return trx, nil
}

// OrganizerReject rolls the transaction back into REJECTED, returning seats,
// voucher use, coupon and points to the customer.
func (s *transactionService) OrganizerReject(ctx context.Context, organizerID, transactionID uuid.UUID) (*models.Transaction, *apperrors.Error) {
	trx, appErr := s.loadForDecision(ctx, organizerID, transactionID)
	if appErr != nil {
		return nil, appErr
	}

	claimed, err := s.rollback(ctx, transactionID, models.StatusRejected)
	if err != nil {
		return nil, s.toAppError(err, "reject rollback failed")
	}
	if !claimed {
		return nil, apperrors.ErrInvalidTransition
	}

	now := s.clock()
	trx.Status = models.StatusRejected
	trx.DecidedAt = &now

	s.logger.Info("transaction rejected",
		zap.String("transaction_id", transactionID.String()),
		zap.String("organizer_id", organizerID.String()))
	s.notifyDecision(ctx, trx, "Your transaction was rejected",
		"The organizer rejected your payment. Seats, vouchers, coupons and points have been returned to you.")
	s.publishLifecycle(ctx, "transaction_rejected", trx)
	return trx, nil
}

func (s *transactionService) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Transaction, *apperrors.Error) {
	list, err := s.repos.Transactions.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, s.toAppError(err, "list customer transactions failed")
	}
	return list, nil
}

func (s *transactionService) ListForOrganizer(ctx context.Context, organizerID uuid.UUID, eventID *uuid.UUID, status *models.TransactionStatus) ([]models.Transaction, *apperrors.Error) {
	list, err := s.repos.Transactions.FindByOrganizer(ctx, organizerID, eventID, status)
	if err != nil {
		return nil, s.toAppError(err, "list organizer transactions failed")
	}
	return list, nil
}

// ExpireOverduePayments rolls back every WAITING_FOR_PAYMENT transaction
// whose payment window has lapsed without proof. A failure on one row is
// logged and skipped so the rest of the batch still progresses.
func (s *transactionService) ExpireOverduePayments(ctx context.Context) (int, error) {
	overdue, err := s.repos.Transactions.FindPaymentOverdue(ctx, s.clock())
	if err != nil {
		return 0, fmt.Errorf("find payment overdue: %w", err)
	}

	count := 0
	for i := range overdue {
		trx := &overdue[i]
		claimed, err := s.rollback(ctx, trx.ID, models.StatusExpired)
		if err != nil {
			s.logger.Error("expire rollback failed",
				zap.String("transaction_id", trx.ID.String()),
				zap.Error(err))
			continue
		}
		if !claimed {
			continue
		}
		count++
		trx.Status = models.StatusExpired
		s.publishLifecycle(ctx, "transaction_expired", trx)
	}
	return count, nil
}

// CancelOverdueConfirmations rolls back transactions the organizer never
// decided within the decision window.
func (s *transactionService) CancelOverdueConfirmations(ctx context.Context) (int, error) {
	overdue, err := s.repos.Transactions.FindDecisionOverdue(ctx, s.clock())
	if err != nil {
		return 0, fmt.Errorf("find decision overdue: %w", err)
	}

	count := 0
	for i := range overdue {
		trx := &overdue[i]
		claimed, err := s.rollback(ctx, trx.ID, models.StatusCanceled)
		if err != nil {
			s.logger.Error("cancel rollback failed",
				zap.String("transaction_id", trx.ID.String()),
				zap.Error(err))
			continue
		}
		if !claimed {
			continue
		}
		count++
		trx.Status = models.StatusCanceled
		s.publishLifecycle(ctx, "transaction_canceled", trx)
	}
	return count, nil
}

// loadForDecision fetches the transaction and checks the caller owns the
// event and the transaction is still awaiting a decision.
func (s *transactionService) loadForDecision(ctx context.Context, organizerID, transactionID uuid.UUID) (*models.Transaction, *apperrors.Error) {
	trx, err := s.repos.Transactions.FindByID(ctx, transactionID)
	if err != nil {
		return nil, s.toAppError(err, "load transaction failed")
	}

	event, err := s.repos.Events.FindByID(ctx, trx.EventID)
	if err != nil {
		return nil, s.toAppError(err, "load event failed")
	}
	if event.OrganizerID != organizerID {
		return nil, apperrors.ErrForbidden
	}
	if trx.Status != models.StatusWaitingForAdminConfirmation {
		return nil, apperrors.ErrInvalidTransition
	}
	return trx, nil
}

// rollback moves the transaction into toStatus and compensates every side
// effect of creation. The guarded claim makes it idempotent: only the caller
// that flips the row runs the compensation, every other caller sees claimed
// false and no effect. Claim and compensation share one database transaction
// so a partial rollback can never be observed.
func (s *transactionService) rollback(ctx context.Context, id uuid.UUID, toStatus models.TransactionStatus) (bool, error) {
	now := s.clock()
	claimed := false

	err := s.txm.InTransaction(ctx, func(r repository.Repos) error {
		trx, err := r.Transactions.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return err
		}
		if trx.DecidedAt != nil || trx.Status.Terminal() {
			return nil
		}

		ok, err := r.Transactions.ClaimForRollback(ctx, id, trx.Status, toStatus, now)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		claimed = true

		if err := r.Inventory.Release(ctx, repository.EventTarget(trx.EventID), trx.Qty); err != nil {
			return err
		}
		if trx.TicketTypeID != nil {
			if err := r.Inventory.Release(ctx, repository.TicketTypeTarget(*trx.TicketTypeID), trx.Qty); err != nil {
				return err
			}
		}

		if trx.VoucherID != nil {
			if err := r.Vouchers.Unredeem(ctx, *trx.VoucherID); err != nil {
				return err
			}
		}

		if trx.CouponID != nil {
			if err := r.Coupons.Release(ctx, *trx.CouponID); err != nil {
				return err
			}
			if err := r.Transactions.ClearCoupon(ctx, id); err != nil {
				return err
			}
		}

		if trx.PointsUsed > 0 {
			expiresAt := now.AddDate(0, pointRefundExpiryMonths, 0)
			entry := &models.PointLedgerEntry{
				UserID:        trx.CustomerID,
				Amount:        trx.PointsUsed,
				Reason:        models.PointReasonRollback,
				ExpiresAt:     &expiresAt,
				TransactionID: &trx.ID,
			}
			if err := r.Points.Append(ctx, entry); err != nil {
				return err
			}
			if err := r.Transactions.ClearPointsUsed(ctx, id); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	if claimed {
		s.logger.Info("transaction rolled back",
			zap.String("transaction_id", id.String()),
			zap.String("status", string(toStatus)))
	}
	return claimed, nil
}

// notifyDecision emails the customer about an organizer decision. Delivery
// failures are logged, never propagated.
func (s *transactionService) notifyDecision(ctx context.Context, trx *models.Transaction, subject, message string) {
	if s.mail == nil {
		return
	}

	customer, err := s.repos.Users.FindByID(ctx, trx.CustomerID)
	if err != nil {
		s.logger.Warn("notify: load customer failed",
			zap.String("transaction_id", trx.ID.String()),
			zap.Error(err))
		return
	}

	body := fmt.Sprintf("<p>Hi %s,</p><p>%s</p><p>Transaction: %s</p>",
		customer.Name, message, trx.ID.String())
	if _, err := s.mail.SendEmail(ctx, customer.Email, subject, body); err != nil {
		s.logger.Warn("notify: email send failed",
			zap.String("transaction_id", trx.ID.String()),
			zap.Error(err))
	}
}

// publishLifecycle fans the event out to Kafka and SNS, best effort.
func (s *transactionService) publishLifecycle(ctx context.Context, eventType string, trx *models.Transaction) {
	evt := models.TransactionEvent{
		EventType:     eventType,
		TransactionID: trx.ID.String(),
		CustomerID:    trx.CustomerID.String(),
		EventID:       trx.EventID.String(),
		Status:        trx.Status,
		TotalAmount:   trx.TotalAmount,
		Timestamp:     s.clock(),
	}
	data, err := json.Marshal(evt)
	if err != nil {
		s.logger.Warn("lifecycle event marshal failed", zap.Error(err))
		return
	}

	if s.producer != nil && s.lifecycleTopic != "" {
		if err := s.producer.Publish(s.lifecycleTopic, data); err != nil {
			s.logger.Warn("kafka publish failed",
				zap.String("event_type", eventType),
				zap.Error(err))
		}
	}
	if s.sns != nil && s.snsTopicARN != "" {
		if err := s.sns.Publish(ctx, s.snsTopicARN, data); err != nil {
			s.logger.Warn("sns publish failed",
				zap.String("event_type", eventType),
				zap.Error(err))
		}
	}
}

// toAppError maps repository sentinels to API errors and wraps everything
// else as an internal failure.
func (s *transactionService) toAppError(err error, logMsg string) *apperrors.Error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrNotFound
	}
	s.logger.Error(logMsg, zap.Error(err))
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
