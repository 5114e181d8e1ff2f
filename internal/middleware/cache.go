package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/sport-court-booking/internal/config"
)

// NewRedisCache caches whole responses for the configured methods,
// keyed per route and query string.  Court listings and availability
// lookups dominate traffic and tolerate a short TTL of staleness;
// everything mutating bypasses the cache because only safe methods are
// configured.  Entries store status, headers and body together so a
// HIT is byte-identical to the response the handler produced.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] || !cacheableRequest(c) {
				return next(c)
			}

			ctx := c.Request().Context()
			key := responseCacheKey(cfg, c)

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodeCached(raw); ok {
					for k, vals := range hdr {
						// Echo recomputes Content-Length for the replayed body.
						if strings.EqualFold(k, "Content-Length") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			rec := &responseRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			// Only successful, fully captured responses are cached; an
			// oversized body means the copy is truncated and unusable.
			if rec.status == http.StatusOK && !rec.overflowed() {
				hdr := make(http.Header, len(c.Response().Header()))
				for k, vals := range c.Response().Header() {
					hdr[k] = append([]string(nil), vals...)
				}
				if payload, err := encodeCached(rec.status, hdr, rec.body.Bytes()); err == nil {
					_ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
				}
			}
			return nil
		}
	}
}

// responseRecorder copies the outgoing response up to limit bytes while
// still streaming it to the client.
type responseRecorder struct {
	http.ResponseWriter
	status  int
	body    bytes.Buffer
	written int64
	limit   int64
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.limit <= 0 {
		r.body.Write(b)
	} else if remain := r.limit - r.written; remain > 0 {
		if int64(len(b)) <= remain {
			r.body.Write(b)
		} else {
			r.body.Write(b[:remain])
		}
	}
	r.written += int64(len(b))
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) overflowed() bool {
	return r.limit > 0 && r.written > r.limit
}

// cacheableRequest rejects requests that must not share responses.
// Anything carrying credentials gets a per-caller answer (own bookings,
// own stats, queue administration), so only anonymous traffic is
// cached.
func cacheableRequest(c echo.Context) bool {
	return c.Request().Header.Get("Authorization") == ""
}

// responseCacheKey hashes the variable part of the key so query strings
// of any length produce a bounded Redis key.  The key uses the concrete
// request path, not the route pattern: /v1/courts/5/availability and
// /v1/courts/9/availability are different entries.
func responseCacheKey(cfg config.CacheConfig, c echo.Context) string {
	req := c.Request()
	path := req.URL.Path

	var tail string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		tail = path
	case "method_route":
		tail = req.Method + ":" + path
	case "method_route_query":
		tail = req.Method + ":" + path + "?" + req.URL.RawQuery
	default: // route_query
		tail = path + "?" + req.URL.RawQuery
	}

	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum)
}

// Cached entries are [status u32][headerLen u32][header JSON][body].

func encodeCached(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodeCached(raw []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(raw) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(raw[0:4]))
	hlen := int(binary.BigEndian.Uint32(raw[4:8]))
	if hlen < 0 || 8+hlen > len(raw) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(raw[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, raw[8+hlen:], true
}
