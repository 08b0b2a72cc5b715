package calendar

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the calendar event endpoints on an API group that
// already carries token authentication.
func RegisterRoutes(api *echo.Group, h *Handler) {
	api.GET("/calendar-events", h.ListEvents)
	api.POST("/calendar-events", h.CreateEvent)
	api.GET("/calendar-events/:eid", h.GetEvent)
	api.PUT("/calendar-events/:eid", h.UpdateEvent)
	api.DELETE("/calendar-events/:eid", h.DeleteEvent)
}
