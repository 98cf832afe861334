package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/bettercalldoel/event-platform-api/apperrors"
	"github.com/bettercalldoel/event-platform-api/models"
)

// DiscountBreakdown is the result of stacking voucher, coupon and points
// against a subtotal. Total is floored at zero.
type DiscountBreakdown struct {
	VoucherDiscount int64
	CouponDiscount  int64
	PointsUsed      int64
	Total           int64
}

// ApplyDiscountStack computes the ordered, capped discount breakdown. The
// order is fixed: voucher, then coupon, then points. Each stage is capped by
// what is still payable after the previous one, so the total can never go
// negative. Requested points beyond the available balance are silently capped
// to the balance, not rejected.
//
// The voucher must belong to eventID, be inside its activity window, and have
// remaining uses; the coupon must belong to customerID, be unexpired and
// unused. Violations return ErrInvalidVoucher / ErrInvalidCoupon. Recording
// the redemption (usedCount increment, usedAt stamp) is the caller's job and
// must happen in the same atomic unit as this computation.
func ApplyDiscountStack(
	subtotal int64,
	eventID uuid.UUID,
	customerID uuid.UUID,
	voucher *models.Voucher,
	coupon *models.Coupon,
	requestedPoints int64,
	availablePoints int64,
	now time.Time,
) (DiscountBreakdown, *apperrors.Error) {
	var b DiscountBreakdown

	if voucher != nil {
		if voucher.EventID != eventID {
			return b, apperrors.ErrInvalidVoucher
		}
		if !voucher.ActiveAt(now) {
			return b, apperrors.ErrInvalidVoucher
		}
		if voucher.Exhausted() {
			return b, apperrors.ErrInvalidVoucher
		}
		b.VoucherDiscount = minInt64(subtotal, voucher.DiscountAmount)
	}

	if coupon != nil {
		if coupon.UserID != customerID {
			return b, apperrors.ErrInvalidCoupon
		}
		if coupon.Expired(now) {
			return b, apperrors.ErrInvalidCoupon
		}
		if coupon.UsedAt != nil {
			return b, apperrors.ErrInvalidCoupon
		}
		b.CouponDiscount = minInt64(subtotal-b.VoucherDiscount, coupon.DiscountAmount)
	}

	maxPayable := subtotal - b.VoucherDiscount - b.CouponDiscount
	if maxPayable < 0 {
		maxPayable = 0
	}
	if requestedPoints < 0 {
		requestedPoints = 0
	}
	b.PointsUsed = minInt64(minInt64(requestedPoints, availablePoints), maxPayable)

	b.Total = maxPayable - b.PointsUsed
	if b.Total < 0 {
		b.Total = 0
	}
	return b, nil
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
