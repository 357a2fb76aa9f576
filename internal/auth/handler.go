package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillhq/quill/internal/apperror"
)

// Handler handles HTTP requests for authentication (signup, signin).
// Handlers are thin: they bind the request, call the service, and shape the
// JSON response. No business logic lives here.
type Handler struct {
	service AuthService
}

// NewHandler creates a new auth handler with the given service.
func NewHandler(service AuthService) *Handler {
	return &Handler{service: service}
}

// messageResponse is the body for simple confirmation responses.
type messageResponse struct {
	Message string `json:"message"`
}

// jwtResponse is the body returned by a successful signin.
type jwtResponse struct {
	Token     string   `json:"token"`
	Type      string   `json:"type"`
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

// Signup processes a registration (POST /api/auth/signup).
func (h *Handler) Signup(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	input := RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     req.Roles,
	}

	if _, err := h.service.Register(c.Request().Context(), input); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "user registered successfully"})
}

// Signin processes a login (POST /api/auth/signin).
func (h *Handler) Signin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	result, err := h.service.Login(c.Request().Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	p := result.Principal
	return c.JSON(http.StatusOK, jwtResponse{
		Token:     result.Token,
		Type:      "Bearer",
		ID:        p.ID,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Roles:     p.RoleNames(),
	})
}
