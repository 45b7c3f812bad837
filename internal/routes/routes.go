package routes

import (
	"github.com/gin-gonic/gin"

	"papyrus_back_end/internal/handlers/admin"
	"papyrus_back_end/internal/handlers/payement"
	"papyrus_back_end/internal/handlers/product"
	"papyrus_back_end/internal/handlers/user"
	"papyrus_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// =============================================
	// AUTH
	// =============================================
	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RegisterRateLimit(), user.Register)
		auth.POST("/login", middleware.LoginRateLimit(), user.Login)
		auth.POST("/forgot-password", middleware.ForgotPasswordRateLimit(), user.ForgotPassword)
		auth.POST("/reset-password", user.ResetPassword)
		auth.GET("/me", middleware.AuthRequired(), user.Me)

		auth.GET("/:provider", user.BeginOAuth)
		auth.GET("/:provider/callback", user.OAuthCallback)
	}

	// =============================================
	// CATALOGUE (public)
	// =============================================
	api.GET("/books", product.GetBooks)
	api.GET("/books/search", middleware.SearchRateLimit(), product.SearchBooks)
	api.GET("/books/:id", product.GetBookByID)
	api.GET("/books/:id/reviews", product.GetBookReviews)
	api.GET("/categories", product.GetCategories)
	api.GET("/shipping/options", payement.GetShippingOptions)
	api.POST("/shipping/calculate", payement.CalculateShipping)
	api.POST("/coupons/validate", payement.ValidateCoupon)

	// Webhook Stripe : pas d'auth, la signature fait foi
	api.POST("/payment/webhook", payement.StripeWebhook)

	// =============================================
	// CLIENT (authentifié)
	// =============================================
	authed := api.Group("")
	authed.Use(middleware.AuthRequired())
	{
		authed.POST("/books/:id/reviews", product.CreateReview)

		authed.GET("/cart", middleware.CartRateLimit(), user.GetCart)
		authed.POST("/cart/items", middleware.CartRateLimit(), user.AddToCart)
		authed.PUT("/cart/items/:bookId", middleware.CartRateLimit(), user.UpdateCartItem)
		authed.DELETE("/cart", user.ClearCart)

		authed.GET("/wishlist", user.GetWishlist)
		authed.POST("/wishlist/:bookId", user.AddToWishlist)
		authed.DELETE("/wishlist/:bookId", user.RemoveFromWishlist)

		authed.GET("/addresses", user.GetAddresses)
		authed.POST("/addresses", user.CreateAddress)
		authed.PUT("/addresses/:id", user.UpdateAddress)
		authed.DELETE("/addresses/:id", user.DeleteAddress)
		authed.PATCH("/addresses/:id/default", user.SetDefaultAddress)

		authed.POST("/orders", payement.Checkout)
		authed.GET("/orders", user.GetMyOrders)
		authed.GET("/orders/:id", user.GetOrderByID)
		authed.POST("/orders/:id/cancel", user.CancelOrder)
		authed.GET("/orders/:id/invoice", user.DownloadInvoice)

		authed.POST("/refunds", payement.RequestRefund)
		authed.GET("/refunds", payement.GetUserRefunds)
	}

	// =============================================
	// ADMIN
	// =============================================
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adminGroup.POST("/books", product.CreateBook)
		adminGroup.PUT("/books/:id", product.UpdateBook)
		adminGroup.DELETE("/books/:id", product.DeleteBook)
		adminGroup.POST("/books/:id/cover", product.UploadBookCover)
		adminGroup.POST("/categories", product.CreateCategory)

		adminGroup.GET("/orders", payement.GetAllOrders)
		adminGroup.GET("/orders/stats", payement.GetOrderStats)
		adminGroup.PUT("/orders/:id/status", payement.UpdateOrderStatus)

		adminGroup.POST("/coupons", payement.CreateCoupon)
		adminGroup.GET("/coupons", payement.GetAllCoupons)
		adminGroup.PUT("/coupons/:id", payement.UpdateCoupon)
		adminGroup.POST("/coupons/:id/pause", payement.PauseCoupon)
		adminGroup.POST("/coupons/:id/resume", payement.ResumeCoupon)
		adminGroup.GET("/coupons/:id/usages", payement.GetCouponUsages)

		adminGroup.GET("/refunds", payement.GetAllRefunds)
		adminGroup.POST("/refunds/:id/process", payement.ProcessRefund)

		adminGroup.GET("/audit-logs", admin.GetAuditLogs)
	}
}
