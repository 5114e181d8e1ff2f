package middleware

// identity.go holds the helpers that turn whatever authentication left
// in the context into a stable identity string.  The rate limiter keys
// its buckets on this; unauthenticated requests all share "anon".

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's ID as a string, or
// "anon" when the request carries no usable identity.  JWTAuth stores
// the raw claim value, so both string and numeric forms are handled.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return "anon"
}
