package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillhq/quill/internal/auth"
	"github.com/quillhq/quill/internal/blog"
)

// RegisterRoutes wires every feature package and registers its routes.
// Dependencies are constructed here, explicitly, in leaf-first order:
// repository, then service, then handler. This is the single composition
// point of the application -- no hidden registry, no init() magic.
func RegisterRoutes(a *App) {
	e := a.Echo

	// Health check endpoint for container orchestration.
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// --- Auth ---
	userRepo := auth.NewUserRepository(a.DB)
	tokenCodec := auth.NewTokenCodec(a.Config.Auth.JWTSecret, a.Config.Auth.TokenTTL)
	authSvc := auth.NewAuthService(userRepo, tokenCodec)
	auth.RegisterRoutes(e, auth.NewHandler(authSvc), a.Redis)

	// --- Blogs ---
	blogRepo := blog.NewBlogRepository(a.DB)
	blogSvc := blog.NewBlogService(blogRepo)
	blog.RegisterRoutes(e, blog.NewHandler(blogSvc), authSvc)
}
