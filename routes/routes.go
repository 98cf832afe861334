package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bettercalldoel/event-platform-api/controllers"
	"github.com/bettercalldoel/event-platform-api/middleware"
)

// RegisterTransactionRoutes sets up all purchase lifecycle routes.
func RegisterTransactionRoutes(r *gin.Engine, tc *controllers.TransactionController) {
	txRoutes := r.Group("/transactions")
	txRoutes.Use(middleware.AuthMiddleware())

	txRoutes.POST("", tc.CreateTransaction)
	txRoutes.POST("/:id/payment-proof", tc.UploadPaymentProof)
	txRoutes.GET("/my", tc.ListMyTransactions)

	organizerRoutes := txRoutes.Group("")
	organizerRoutes.Use(middleware.RequireOrganizer())
	organizerRoutes.POST("/:id/accept", tc.AcceptTransaction)
	organizerRoutes.POST("/:id/reject", tc.RejectTransaction)
	organizerRoutes.GET("/organizer", tc.ListOrganizerTransactions)

	adminRoutes := r.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
	adminRoutes.POST("/sweep", tc.ForceSweep)
}

// RegisterRewardRoutes sets up voucher, coupon and point routes.
func RegisterRewardRoutes(r *gin.Engine, rc *controllers.RewardController) {
	voucherRoutes := r.Group("/events")
	voucherRoutes.Use(middleware.AuthMiddleware(), middleware.RequireOrganizer())
	voucherRoutes.POST("/:id/vouchers", rc.CreateVoucher)

	rewardRoutes := r.Group("/rewards")
	rewardRoutes.Use(middleware.AuthMiddleware())
	rewardRoutes.GET("/points/balance", rc.MyPointBalance)

	adminRewards := rewardRoutes.Group("")
	adminRewards.Use(middleware.RequireAdmin())
	adminRewards.POST("/coupons", rc.IssueCoupon)
	adminRewards.POST("/points", rc.GrantPoints)
}
