package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole is the single authorization gate of the API: every
// protected route group passes the roles it accepts and nothing else
// re-checks roles downstream.  It expects JWTAuth to have stored the
// "role" claim in the context; a missing or unknown role answers 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
