package router

import (
	"github.com/iliyamo/sport-court-booking/internal/handler"
	"github.com/iliyamo/sport-court-booking/internal/middleware"
	"github.com/iliyamo/sport-court-booking/internal/model"
	"github.com/labstack/echo/v4"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All routes
// require a valid JWT and the CUSTOMER role.  Customers create bookings,
// view and cancel their own, quote and apply schedule changes, and read
// their booking statistics.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer),
	)
	// Note: court availability is registered on the public router so that
	// guests can check a slot before registering.  Customer-specific
	// endpoints begin here.
	g.POST("/bookings", h.CreateBooking)
	g.GET("/my-bookings", h.ListBookings)

	// Stats must be registered before /bookings/:id so the literal
	// segment is not swallowed by the parameter route.
	g.GET("/bookings/stats", h.Stats)

	g.GET("/bookings/:id", h.GetBooking)
	g.DELETE("/bookings/:id", h.CancelBooking)

	// Schedule changes: quote first, then apply.  Quoting never mutates
	// the booking; applying re-checks availability and adds the fee.
	g.POST("/bookings/:id/modification-fee", h.QuoteModificationFee)
	g.PUT("/bookings/:id/schedule", h.Reschedule)
}
