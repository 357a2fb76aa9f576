package auth

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/quillhq/quill/internal/middleware"
)

// RegisterRoutes sets up the auth endpoints. Both are public -- the
// RequireAuth middleware is exported separately for other packages to use
// on their route groups.
//
// Both endpoints are rate-limited per IP to slow down brute-force and
// credential stuffing: 10 attempts per minute for signin, 5 for signup.
func RegisterRoutes(e *echo.Echo, h *Handler, rdb *redis.Client) {
	g := e.Group("/api/auth")
	g.POST("/signup", h.Signup, middleware.RateLimit(rdb, "signup", 5, time.Minute))
	g.POST("/signin", h.Signin, middleware.RateLimit(rdb, "signin", 10, time.Minute))
}
