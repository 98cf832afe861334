package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bettercalldoel/event-platform-api/apperrors"
	"github.com/bettercalldoel/event-platform-api/models"
	"github.com/bettercalldoel/event-platform-api/repository"
)

// RewardService manages the reward instruments transactions consume:
// organizer vouchers, admin-issued coupons and point grants.
type RewardService interface {
	CreateVoucher(ctx context.Context, organizerID, eventID uuid.UUID, req *models.CreateVoucherRequest) (*models.Voucher, *apperrors.Error)
	IssueCoupon(ctx context.Context, req *models.IssueCouponRequest) (*models.Coupon, *apperrors.Error)
	GrantPoints(ctx context.Context, req *models.GrantPointsRequest) (*models.PointLedgerEntry, *apperrors.Error)
	PointBalance(ctx context.Context, userID uuid.UUID) (*models.PointBalanceResponse, *apperrors.Error)
}

type rewardService struct {
	repos  repository.Repos
	logger *zap.Logger
	clock  func() time.Time
}

func NewRewardService(repos repository.Repos, logger *zap.Logger, clock func() time.Time) RewardService {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &rewardService{repos: repos, logger: logger, clock: clock}
}

// CreateVoucher creates an event voucher. Only the organizer who owns the
// event may create vouchers for it.
func (s *rewardService) CreateVoucher(ctx context.Context, organizerID, eventID uuid.UUID, req *models.CreateVoucherRequest) (*models.Voucher, *apperrors.Error) {
	event, err := s.repos.Events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.logger.Error("load event failed", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if event.OrganizerID != organizerID {
		return nil, apperrors.ErrForbidden
	}
	if req.EndAt.Before(req.StartAt) {
		return nil, apperrors.New(400, "Voucher window ends before it starts", nil)
	}

	voucher := &models.Voucher{
		ID:             uuid.New(),
		EventID:        eventID,
		Code:           req.Code,
		DiscountAmount: req.DiscountAmount,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		MaxUses:        req.MaxUses,
	}
	if err := s.repos.Vouchers.Create(ctx, voucher); err != nil {
		s.logger.Error("create voucher failed", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.logger.Info("voucher created",
		zap.String("voucher_id", voucher.ID.String()),
		zap.String("event_id", eventID.String()),
		zap.String("code", voucher.Code))
	return voucher, nil
}

// IssueCoupon issues a single-use coupon to a user.
func (s *rewardService) IssueCoupon(ctx context.Context, req *models.IssueCouponRequest) (*models.Coupon, *apperrors.Error) {
	if _, err := s.repos.Users.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.logger.Error("load user failed", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if req.ExpiresAt.Before(s.clock()) {
		return nil, apperrors.New(400, "Coupon expiry is in the past", nil)
	}

	coupon := &models.Coupon{
		ID:             uuid.New(),
		UserID:         req.UserID,
		Code:           req.Code,
		DiscountAmount: req.DiscountAmount,
		ExpiresAt:      req.ExpiresAt,
	}
	if err := s.repos.Coupons.Create(ctx, coupon); err != nil {
		s.logger.Error("issue coupon failed", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.logger.Info("coupon issued",
		zap.String("coupon_id", coupon.ID.String()),
		zap.String("user_id", req.UserID.String()))
	return coupon, nil
}

// GrantPoints appends a credit to the user's ledger.
func (s *rewardService) GrantPoints(ctx context.Context, req *models.GrantPointsRequest) (*models.PointLedgerEntry, *apperrors.Error) {
	if _, err := s.repos.Users.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.logger.Error("load user failed", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	reason := req.Reason
	switch reason {
	case "":
		reason = models.PointReasonAdminGrant
	case models.PointReasonAdminGrant, models.PointReasonReferralReward:
	default:
		// Transaction-lifecycle reasons are written by the lifecycle engine
		// only, never through a grant.
		return nil, apperrors.ErrValidation
	}
	entry := &models.PointLedgerEntry{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Amount:    req.Amount,
		Reason:    reason,
		ExpiresAt: req.ExpiresAt,
	}
	if err := s.repos.Points.Append(ctx, entry); err != nil {
		s.logger.Error("grant points failed", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.logger.Info("points granted",
		zap.String("user_id", req.UserID.String()),
		zap.Int64("amount", req.Amount),
		zap.String("reason", reason))
	return entry, nil
}

// PointBalance returns the user's spendable balance, excluding expired
// credits.
func (s *rewardService) PointBalance(ctx context.Context, userID uuid.UUID) (*models.PointBalanceResponse, *apperrors.Error) {
	now := s.clock()
	balance, err := s.repos.Points.AvailableBalance(ctx, userID, now)
	if err != nil {
		s.logger.Error("point balance failed", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &models.PointBalanceResponse{UserID: userID, Balance: balance, AsOf: now}, nil
}
