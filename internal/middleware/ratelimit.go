// ratelimit.go implements a per-IP rate limiter using a fixed window
// counter stored in Redis, so the limit holds across multiple server
// instances. Designed for the auth endpoints (login, register).
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// rateLimitKeyPrefix namespaces rate limiter keys in Redis.
const rateLimitKeyPrefix = "ratelimit:"

// RateLimit returns middleware that limits requests per IP to maxRequests
// within the given window duration. Returns 429 when exceeded.
//
// SETNX seeds the counter with its expiry in the same transaction as the
// INCR, so a counter can never exist without a TTL and the window resets
// itself without any cleanup job. If Redis is unreachable the limiter
// fails open -- availability of login beats strictness of throttling.
func RateLimit(rdb *redis.Client, name string, maxRequests int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := fmt.Sprintf("%s%s:%s", rateLimitKeyPrefix, name, c.RealIP())

			pipe := rdb.TxPipeline()
			pipe.SetNX(ctx, key, 0, window)
			incr := pipe.Incr(ctx, key)
			if _, err := pipe.Exec(ctx); err != nil {
				slog.Warn("rate limiter unavailable, allowing request",
					slog.String("limiter", name),
					slog.Any("error", err),
				)
				return next(c)
			}

			if incr.Val() > int64(maxRequests) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error":   "Too Many Requests",
					"message": "Rate limit exceeded. Please try again later.",
				})
			}

			return next(c)
		}
	}
}
