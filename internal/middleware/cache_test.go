package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/sport-court-booking/internal/config"
)

func browseContext(t *testing.T, target string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := echo.New().NewContext(req, httptest.NewRecorder())
	// Parameterized routes resolve to the same pattern; the key must
	// still come from the concrete path.
	c.SetPath("/v1/courts/:id/availability")
	return c
}

func TestResponseCacheKeyDistinguishesPathParams(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	court5 := responseCacheKey(cfg, browseContext(t, "/v1/courts/5/availability?date=2026-09-01"))
	court9 := responseCacheKey(cfg, browseContext(t, "/v1/courts/9/availability?date=2026-09-01"))
	if court5 == court9 {
		t.Fatalf("availability for courts 5 and 9 share cache key %s", court5)
	}

	again := responseCacheKey(cfg, browseContext(t, "/v1/courts/5/availability?date=2026-09-01"))
	if court5 != again {
		t.Errorf("same request hashed to %s then %s", court5, again)
	}

	otherDate := responseCacheKey(cfg, browseContext(t, "/v1/courts/5/availability?date=2026-09-02"))
	if court5 == otherDate {
		t.Errorf("different query strings share cache key %s", court5)
	}
}

func TestCacheableRequestSkipsAuthenticated(t *testing.T) {
	tests := []struct {
		name  string
		auth  string
		want  bool
	}{
		{"anonymous browse", "", true},
		{"bearer token", "Bearer abc.def.ghi", false},
		{"basic credentials", "Basic dXNlcjpwYXNz", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/my-bookings", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			c := echo.New().NewContext(req, httptest.NewRecorder())
			if got := cacheableRequest(c); got != tt.want {
				t.Errorf("cacheableRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}
