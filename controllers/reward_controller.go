package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bettercalldoel/event-platform-api/apperrors"
	"github.com/bettercalldoel/event-platform-api/middleware"
	"github.com/bettercalldoel/event-platform-api/models"
	"github.com/bettercalldoel/event-platform-api/services"
)

// RewardController handles HTTP requests for vouchers, coupons and points.
type RewardController struct {
	rewardService services.RewardService
}

// NewRewardController creates a new RewardController.
func NewRewardController(rewardService services.RewardService) *RewardController {
	return &RewardController{rewardService: rewardService}
}

// CreateVoucher handles POST /events/:id/vouchers (organizer only).
func (rc *RewardController) CreateVoucher(ctx *gin.Context) {
	organizerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var req models.CreateVoucherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(apperrors.ErrValidation.Code, gin.H{"error": apperrors.ErrValidation.Message, "details": err.Error()})
		return
	}

	voucher, svcErr := rc.rewardService.CreateVoucher(ctx.Request.Context(), organizerID, eventID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.Code, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"voucher": voucher})
}

// IssueCoupon handles POST /rewards/coupons (admin only).
func (rc *RewardController) IssueCoupon(ctx *gin.Context) {
	var req models.IssueCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(apperrors.ErrValidation.Code, gin.H{"error": apperrors.ErrValidation.Message, "details": err.Error()})
		return
	}

	coupon, svcErr := rc.rewardService.IssueCoupon(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.Code, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"coupon": coupon})
}

// GrantPoints handles POST /rewards/points (admin only).
func (rc *RewardController) GrantPoints(ctx *gin.Context) {
	var req models.GrantPointsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(apperrors.ErrValidation.Code, gin.H{"error": apperrors.ErrValidation.Message, "details": err.Error()})
		return
	}

	entry, svcErr := rc.rewardService.GrantPoints(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.Code, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// MyPointBalance handles GET /rewards/points/balance (any authenticated user).
func (rc *RewardController) MyPointBalance(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balance, svcErr := rc.rewardService.PointBalance(ctx.Request.Context(), userID)
	if svcErr != nil {
		ctx.JSON(svcErr.Code, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, balance)
}
