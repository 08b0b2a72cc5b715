package social

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the social post endpoints on the authenticated API
// group. The static "scheduled" segment is registered before the :pid route.
func RegisterRoutes(api *echo.Group, h *Handler) {
	api.GET("/social-posts/scheduled", h.ListScheduled)
	api.GET("/social-posts/:pid", h.GetPost)
}
