package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/quillhq/quill/internal/apperror"
)

// contextKeyPrincipal is the Echo context key for the authenticated
// principal. Other packages access it via GetPrincipal.
const contextKeyPrincipal = "auth_principal"

// RequireAuth returns middleware that authenticates requests via a bearer
// token. The token is taken from the Authorization header, verified, and
// the resulting Principal stored in the request context for downstream
// handlers. Requests without a valid token get a 401.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return apperror.NewUnauthorized("authentication required")
			}

			principal, err := service.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(contextKeyPrincipal, principal)
			return next(c)
		}
	}
}

// RequireRole returns middleware that rejects authenticated requests whose
// principal does not hold the given role. Must run after RequireAuth.
func RequireRole(role Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := GetPrincipal(c)
			if p == nil {
				return apperror.NewUnauthorized("authentication required")
			}
			if !p.HasRole(role) {
				return apperror.NewForbidden("insufficient privileges")
			}
			return next(c)
		}
	}
}

// GetPrincipal retrieves the authenticated principal from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
func GetPrincipal(c echo.Context) *Principal {
	p, ok := c.Get(contextKeyPrincipal).(*Principal)
	if !ok {
		return nil
	}
	return p
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Returns "" when the header is missing or not bearer-shaped.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return strings.TrimSpace(token)
}
