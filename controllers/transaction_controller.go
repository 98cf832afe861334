package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bettercalldoel/event-platform-api/apperrors"
	"github.com/bettercalldoel/event-platform-api/middleware"
	"github.com/bettercalldoel/event-platform-api/models"
	"github.com/bettercalldoel/event-platform-api/services"
)

// TransactionController handles HTTP requests for the purchase lifecycle.
type TransactionController struct {
	txService services.TransactionService
	sweeper   *services.Sweeper
}

// NewTransactionController creates a new TransactionController.
func NewTransactionController(txService services.TransactionService, sweeper *services.Sweeper) *TransactionController {
	return &TransactionController{txService: txService, sweeper: sweeper}
}

// CreateTransaction handles POST /transactions (customer).
func (tc *TransactionController) CreateTransaction(ctx *gin.Context) {
	customerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(apperrors.ErrValidation.Code, gin.H{"error": apperrors.ErrValidation.Message, "details": err.Error()})
		return
	}

	trx, svcErr := tc.txService.Create(ctx.Request.Context(), customerID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.Code, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, models.CreateTransactionResponse{
		ID:           trx.ID,
		Status:       trx.Status,
		PaymentDueAt: trx.PaymentDueAt,
		TotalAmount:  trx.TotalAmount,
	})
}

// UploadPaymentProof handles POST /transactions/:id/payment-proof (customer).
func (tc *TransactionController) UploadPaymentProof(ctx *gin.Context) {
	customerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	transactionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction id"})
		return
	}

	var req models.UploadPaymentProofRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(apperrors.ErrValidation.Code, gin.H{"error": apperrors.ErrValidation.Message, "details": err.Error()})
		return
	}

	trx, svcErr := tc.txService.UploadPaymentProof(ctx.Request.Context(), customerID, transactionID, req.PaymentProofURL)
	if svcErr != nil {
		ctx.JSON(svcErr.Code, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":              trx.ID,
		"status":          trx.Status,
		"decision_due_at": trx.DecisionDueAt,
	})
}

// AcceptTransaction handles POST /transactions/:id/accept (organizer).
func (tc *TransactionController) AcceptTransaction(ctx *gin.Context) {
	tc.decide(ctx, tc.txService.OrganizerAccept)
}

// RejectTransaction handles POST /transactions/:id/reject (organizer).
func (tc *TransactionController) RejectTransaction(ctx *gin.Context) {
	tc.decide(ctx, tc.txService.OrganizerReject)
}

func (tc *TransactionController) decide(ctx *gin.Context, fn func(c context.Context, organizerID, transactionID uuid.UUID) (*models.Transaction, *apperrors.Error)) {
	organizerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	transactionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction id"})
		return
	}

	trx, serviceErr := fn(ctx.Request.Context(), organizerID, transactionID)
	if serviceErr != nil {
		ctx.JSON(serviceErr.Code, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":         trx.ID,
		"status":     trx.Status,
		"decided_at": trx.DecidedAt,
	})
}

// ListMyTransactions handles GET /transactions/my (customer).
func (tc *TransactionController) ListMyTransactions(ctx *gin.Context) {
	customerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	list, svcErr := tc.txService.ListForCustomer(ctx.Request.Context(), customerID)
	if svcErr != nil {
		ctx.JSON(svcErr.Code, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"transactions": list})
}

// ListOrganizerTransactions handles GET /transactions/organizer with optional
// event_id and status query filters.
func (tc *TransactionController) ListOrganizerTransactions(ctx *gin.Context) {
	organizerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var eventID *uuid.UUID
	if raw := ctx.Query("event_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event_id"})
			return
		}
		eventID = &id
	}

	var status *models.TransactionStatus
	if raw := ctx.Query("status"); raw != "" {
		s := models.TransactionStatus(raw)
		status = &s
	}

	list, svcErr := tc.txService.ListForOrganizer(ctx.Request.Context(), organizerID, eventID, status)
	if svcErr != nil {
		ctx.JSON(svcErr.Code, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"transactions": list})
}

// ForceSweep handles POST /admin/sweep (admin). Runs one sweep pass on
// demand instead of waiting for the next scheduled tick.
func (tc *TransactionController) ForceSweep(ctx *gin.Context) {
	expired, canceled, err := tc.sweeper.Tick(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Sweep failed", "details": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"expired": expired, "canceled": canceled})
}
