package router

// This file registers the email dispatch routes.  Send endpoints are
// available to any authenticated user; queue administration is gated to
// the ADMIN role.  The health endpoint is unauthenticated so monitoring
// systems can poll it.

import (
	"github.com/iliyamo/sport-court-booking/internal/handler"
	"github.com/iliyamo/sport-court-booking/internal/middleware"
	"github.com/iliyamo/sport-court-booking/internal/model"
	"github.com/labstack/echo/v4"
)

// RegisterEmail registers the email dispatch and queue administration
// endpoints.  The caller only invokes this when the broker connection
// was established; without it the routes would fail on every request.
func RegisterEmail(e *echo.Echo, h *handler.EmailHandler, jwtSecret string) {
	// Typed and custom sends require an authenticated session of any role.
	send := e.Group(
		"/v1/email",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleOwner, model.RoleCustomer),
	)
	send.POST("/magic-link", h.SendMagicLink)
	send.POST("/otp", h.SendOTP)
	send.POST("/password-reset", h.SendPasswordReset)
	send.POST("/verify", h.SendVerification)
	send.POST("/welcome", h.SendWelcome)
	send.POST("/send", h.SendCustom)
	send.PUT("/send", h.SendBulk)

	// Queue administration is ADMIN only.
	admin := e.Group(
		"/v1/email/queue",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	admin.GET("", h.GetQueueMetrics)
	admin.POST("", h.QueueAction)

	// Health is public: 200 healthy, 206 degraded, 503 unhealthy.
	e.GET("/v1/email/health", h.EmailHealth)
}
