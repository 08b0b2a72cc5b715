package calendar

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/backoffice/internal/apperror"
)

// Handler serves the calendar event REST endpoints.
type Handler struct {
	svc EventService
}

// NewHandler creates a new calendar Handler.
func NewHandler(svc EventService) *Handler {
	return &Handler{svc: svc}
}

// ListEvents returns every event, newest first.
// GET /api/v1/calendar-events
func (h *Handler) ListEvents(c echo.Context) error {
	events, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":  events,
		"total": len(events),
	})
}

// GetEvent returns a single event.
// GET /api/v1/calendar-events/:eid
func (h *Handler) GetEvent(c echo.Context) error {
	evt, err := h.svc.Get(c.Request().Context(), c.Param("eid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, evt)
}

// CreateEvent creates an event from a JSON body.
// POST /api/v1/calendar-events
func (h *Handler) CreateEvent(c echo.Context) error {
	var input EventInput
	if err := json.NewDecoder(c.Request().Body).Decode(&input); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	evt, err := h.svc.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, evt)
}

// UpdateEvent applies a partial update from a JSON body.
// PUT /api/v1/calendar-events/:eid
func (h *Handler) UpdateEvent(c echo.Context) error {
	var input UpdateEventInput
	if err := json.NewDecoder(c.Request().Body).Decode(&input); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	evt, err := h.svc.Update(c.Request().Context(), c.Param("eid"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, evt)
}

// DeleteEvent removes an event.
// DELETE /api/v1/calendar-events/:eid
func (h *Handler) DeleteEvent(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("eid")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
