package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/sport-court-booking/internal/handler"
	"github.com/iliyamo/sport-court-booking/internal/middleware"
	"github.com/iliyamo/sport-court-booking/internal/model"
)

// RegisterRoutes registers the routes that carry no authentication at
// all.  Currently that is just the liveness probe.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the session lifecycle.  Register, login and the
// two refresh variants live under /v1/auth and need no token; /v1/me
// requires a valid session of any role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)               // rotates the refresh token
	g.POST("/refresh-access", a.RefreshAccess)  // new access token only
	g.POST("/logout", a.Logout)

	// Logout is also reachable outside /v1/auth.  It deliberately skips
	// JWTAuth: a client whose access token already expired must still be
	// able to end its session with the refresh token alone.
	e.POST("/v1/logout", a.Logout)

	auth := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleOwner, model.RoleCustomer),
	)
	auth.GET("/me", a.Me)
}

// RegisterPublic wires the guest browse API: facilities, courts and
// court availability, no session required.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/v1/facilities", p.GetPublicFacilities)
	e.GET("/v1/facilities/:id", p.GetPublicFacility)
	e.GET("/v1/facilities/:id/courts", p.GetPublicCourts)
	// Free one-hour slots for a court on a date, derived from opening
	// hours minus non-cancelled bookings and blocked windows.
	e.GET("/v1/courts/:id/availability", p.GetCourtAvailability)
	e.GET("/v1/search/facilities", p.SearchFacilities)
}
