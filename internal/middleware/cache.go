package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/bus-ticket-booking/internal/config"
)

// bodyCapture duplicates the response body while forwarding it to the
// client, up to a byte limit.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (bc *bodyCapture) WriteHeader(code int) {
	bc.status = code
	bc.ResponseWriter.WriteHeader(code)
}

func (bc *bodyCapture) Write(b []byte) (int, error) {
	if bc.limit <= 0 || bc.size+int64(len(b)) <= bc.limit {
		bc.buf.Write(b)
	}
	bc.size += int64(len(b))
	return bc.ResponseWriter.Write(b)
}

// routeCacheKey builds a stable Redis key from the route and query.
func routeCacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// NewRouteCache returns an Echo middleware that serves successful GET
// responses from Redis for the configured TTL.  It fronts the route list
// endpoint so that in a multi-instance deployment every instance shares
// one cached copy.  Requests carrying ?refresh=true bypass and overwrite
// the cached entry.  With caching disabled or no Redis client the
// middleware is a pass-through.
func NewRouteCache(cfg config.RouteCacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := routeCacheKey(cfg.Prefix, c)
			refresh := c.QueryParam("refresh") == "true"

			if !refresh {
				if body, err := rdb.Get(ctx, key).Bytes(); err == nil && len(body) > 0 {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.JSONBlob(http.StatusOK, body)
				}
			}

			bc := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
			c.Response().Writer = bc
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if bc.status == http.StatusOK && bc.buf.Len() > 0 && (bc.limit <= 0 || bc.size <= bc.limit) {
				// Store with a detached context; the request may already
				// be finishing.
				_ = rdb.SetEx(context.Background(), key, bc.buf.Bytes(), ttl).Err()
			}
			return nil
		}
	}
}
