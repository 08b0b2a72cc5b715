package icalfeed

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

// Handler serves the feed over HTTP.
type Handler struct {
	events calendar.EventService
	posts  social.PostService
	opts   Options
}

// NewHandler creates a feed Handler.
func NewHandler(events calendar.EventService, posts social.PostService, loc *time.Location) *Handler {
	return &Handler{events: events, posts: posts, opts: Options{Location: loc}}
}

// RegisterRoutes mounts the feed on an authenticated API group.
func RegisterRoutes(api *echo.Group, h *Handler) {
	api.GET("/calendar.ics", h.Feed)
}

// Feed returns every event and standalone scheduled post as iCalendar.
// GET /api/v1/calendar.ics
func (h *Handler) Feed(c echo.Context) error {
	var (
		events []calendar.Event
		posts  []social.Post
	)
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() (err error) {
		events, err = h.events.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		posts, err = h.posts.ListScheduled(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	body := Build(events, posts, h.opts).Serialize()
	c.Response().Header().Set("Content-Disposition", `inline; filename="calendar.ics"`)
	return c.Blob(http.StatusOK, ContentType, []byte(body))
}
