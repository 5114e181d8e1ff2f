package router // router defines how HTTP routes are registered for the API

import (
	"github.com/iliyamo/sport-court-booking/internal/handler"    // owner handlers
	"github.com/iliyamo/sport-court-booking/internal/middleware" // JWT + role middlewares
	"github.com/iliyamo/sport-court-booking/internal/model"
	"github.com/labstack/echo/v4"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1.
// All routes require a valid JWT and OWNER role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner),
	)

	// ---- Facilities ----
	g.POST("/facilities", o.CreateFacility)
	// NOTE: GET /v1/facilities and GET /v1/facilities/:id belong to the
	// public browse API.  The owner's management view lives under
	// /my-facilities to avoid route conflicts.
	g.GET("/my-facilities", o.ListFacilities)
	g.GET("/my-facilities/:id", o.GetFacility)
	g.PUT("/facilities/:id", o.UpdateFacility)
	g.PATCH("/facilities/:id", o.UpdateFacility) // allow partial/semantic updates via PATCH as well
	g.DELETE("/facilities/:id", o.DeleteFacility)

	// ---- Courts ----
	g.POST("/facilities/:id/courts", o.CreateCourt)
	// Owner court list includes deactivated courts, unlike the public one.
	g.GET("/my-facilities/:id/courts", o.ListCourts)
	g.PUT("/courts/:id", o.UpdateCourt)
	g.PATCH("/courts/:id", o.UpdateCourt)
	g.DELETE("/courts/:id", o.DeleteCourt)

	// ---- Blocked windows ----
	g.POST("/courts/:id/blocked-slots", o.BlockSlot)
	g.GET("/courts/:id/blocked-slots", o.ListBlockedSlots)
	g.DELETE("/blocked-slots/:id", o.UnblockSlot)

	// ---- Bookings on owned courts ----
	g.GET("/courts/:id/bookings", o.ListCourtBookings)
	g.PATCH("/bookings/:id/status", o.UpdateBookingStatus)
}
