package social

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler serves the read side of the social post API.
type Handler struct {
	svc PostService
}

// NewHandler creates a new social Handler.
func NewHandler(svc PostService) *Handler {
	return &Handler{svc: svc}
}

// ListScheduled returns every post with a calendar time.
// GET /api/v1/social-posts/scheduled
func (h *Handler) ListScheduled(c echo.Context) error {
	posts, err := h.svc.ListScheduled(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":  posts,
		"total": len(posts),
	})
}

// GetPost returns a single post.
// GET /api/v1/social-posts/:pid
func (h *Handler) GetPost(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("pid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
