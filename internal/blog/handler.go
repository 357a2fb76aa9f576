package blog

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/quillhq/quill/internal/apperror"
)

// Handler handles HTTP requests for blog posts. Handlers are thin: bind,
// call the service, shape the JSON response.
type Handler struct {
	service BlogService
}

// NewHandler creates a new blog handler with the given service.
func NewHandler(service BlogService) *Handler {
	return &Handler{service: service}
}

// List returns all posts (GET /api/blogs).
func (h *Handler) List(c echo.Context) error {
	blogs, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, blogs)
}

// Get returns one post (GET /api/blogs/:id).
func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	b, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// Create adds a new post (POST /api/blogs).
func (h *Handler) Create(c echo.Context) error {
	var req BlogRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	b, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, b)
}

// Update rewrites a post (PUT /api/blogs/:id).
func (h *Handler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req BlogRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	b, err := h.service.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// Delete removes a post (DELETE /api/blogs/:id).
func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// parseID reads the :id path parameter.
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.NewBadRequest("invalid blog id")
	}
	return id, nil
}
