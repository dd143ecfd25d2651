package routes

import (
	"github.com/gin-gonic/gin"

	"salonova_back_end/internal/handlers"
	"salonova_back_end/internal/handlers/admin"
	"salonova_back_end/internal/handlers/payement"
	"salonova_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// Auth
	api.POST("/auth/login", handlers.Login)

	// Back-office : JWT + rôle admin obligatoires
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired())
	adminGroup.Use(middleware.RequireAdmin)
	{
		// Réservations
		adminGroup.GET("/bookings", payement.GetAllBookings)
		adminGroup.GET("/bookings/:bookingId", payement.GetBooking)

		// Remboursements
		adminGroup.POST("/bookings/:bookingId/refund", payement.ProcessBookingRefund)
		adminGroup.POST("/bookings/:bookingId/refund/preview", payement.PreviewBookingRefund)
		adminGroup.GET("/bookings/:bookingId/refunds", payement.GetBookingRefunds)

		// Audit
		adminGroup.GET("/audit", admin.GetAuditLogs)
	}
}
