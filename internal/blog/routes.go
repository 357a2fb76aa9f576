package blog

import (
	"github.com/labstack/echo/v4"

	"github.com/quillhq/quill/internal/auth"
)

// RegisterRoutes sets up the blog endpoints. Reads are public; creating and
// editing require a logged-in user, and deleting requires the ADMIN role.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService) {
	g := e.Group("/api/blogs")

	g.GET("", h.List)
	g.GET("/:id", h.Get)

	requireAuth := auth.RequireAuth(authSvc)
	g.POST("", h.Create, requireAuth)
	g.PUT("/:id", h.Update, requireAuth)
	g.DELETE("/:id", h.Delete, requireAuth, auth.RequireRole(auth.RoleAdmin))
}
