package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/HeyBoY-ops/movie-ticket-backend/internal/config"
)

// RateLimit returns a fixed-window request limiter keyed by holder id
// (falling back to client IP for unauthenticated calls) and route.  A
// caller gets cfg.Limit requests per cfg.Window; beyond that the request
// is rejected with 429 and a Retry-After hint.  With no Redis client, or
// when Redis errors mid-request, the limiter lets traffic through: the
// seat-lock uniqueness constraint is what protects correctness, the
// limiter only sheds abusive polling.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	windowSecs := int64(cfg.Window / time.Second)
	if windowSecs < 1 {
		windowSecs = 1
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			now := time.Now().Unix()
			window := now / windowSecs
			key := strings.Join([]string{
				cfg.Prefix,
				rateCaller(c),
				c.Request().Method + ":" + c.Path(),
				strconv.FormatInt(window, 10),
			}, ":")

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				return next(c)
			}
			if count == 1 {
				// First hit in this window owns the key expiry.
				_ = rdb.Expire(ctx, key, time.Duration(windowSecs)*time.Second).Err()
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			remaining := int64(cfg.Limit) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Limit) {
				retryAfter := windowSecs - (now % windowSecs)
				c.Response().Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too many requests",
					"retry_after": retryAfter,
				})
			}
			return next(c)
		}
	}
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error { return next(c) }
}

// rateCaller prefers the authenticated holder so shared NATs don't blend
// into one bucket; anonymous callers fall back to IP.
func rateCaller(c echo.Context) string {
	if id := HolderID(c); id != "" {
		return "u:" + id
	}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
