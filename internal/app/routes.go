package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/backoffice/internal/icalfeed"
	"github.com/keyxmakerx/backoffice/internal/middleware"
	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
	"github.com/keyxmakerx/backoffice/internal/plugins/tokens"
)

// Services are the plugin services the routes are built on. main.go also
// uses them for the token and seed subcommands.
type Services struct {
	Events calendar.EventService
	Posts  social.PostService
	Tokens tokens.TokenService
}

// NewServices wires the MariaDB repositories into the plugin services.
func (a *App) NewServices() Services {
	return Services{
		Events: calendar.NewEventService(calendar.NewEventRepository(a.DB)),
		Posts:  social.NewPostService(social.NewPostRepository(a.DB)),
		Tokens: tokens.NewTokenService(tokens.NewTokenRepository(a.DB), a.Redis, a.Config.API.TokenCacheTTL),
	}
}

// RegisterRoutes sets up all application routes. It registers public routes
// directly and delegates to each plugin's route registration function.
//
// This is the single place where all routes are aggregated. When a new
// plugin is added, its routes are registered here.
func (a *App) RegisterRoutes(svc Services) {
	e := a.Echo

	// --- Public Routes (no auth required) ---

	// Health check endpoint for container health monitoring.
	e.GET("/healthz", a.healthz)

	// --- API Routes ---
	// Every /api/v1 route requires a bearer token and is rate limited per IP.
	api := e.Group("/api/v1")
	if a.Config.API.RateLimit > 0 {
		api.Use(middleware.RateLimit(a.Config.API.RateLimit, time.Minute))
	}
	api.Use(tokens.RequireToken(svc.Tokens))

	calendar.RegisterRoutes(api, calendar.NewHandler(svc.Events))
	social.RegisterRoutes(api, social.NewHandler(svc.Posts))
	icalfeed.RegisterRoutes(api, icalfeed.NewHandler(svc.Events, svc.Posts, a.Config.Calendar.Location()))
}

// healthz pings every configured dependency. Any failure turns the whole
// response into a 503 so orchestrators restart or drain the instance.
func (a *App) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := map[string]string{"status": "ok"}
	for name, check := range a.checks {
		if err := check(ctx); err != nil {
			slog.Warn("health check failed", slog.String("dependency", name), slog.Any("error", err))
			body[name] = "unavailable"
			body["status"] = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		body[name] = "ok"
	}
	return c.JSON(status, body)
}
