// Package middleware provides the HTTP middleware for the back-office API
// server. Global middleware is registered in internal/app/app.go; per-group
// middleware (rate limiting, token auth) in internal/app/routes.go.
package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// TokenNameKey is the echo context key under which the token middleware
// stores the authenticated token's name for request logging.
const TokenNameKey = "token_name"

// RequestLogger returns middleware that logs every HTTP request with
// method, path, status, latency and remote IP. Authenticated requests also
// carry the API token name.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let the error handler write the response first so the
				// logged status is the one the client sees.
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", res.Status),
				slog.Duration("latency", time.Since(start)),
				slog.String("remote_ip", c.RealIP()),
			}
			if req.URL.RawQuery != "" {
				attrs = append(attrs, slog.String("query", req.URL.RawQuery))
			}
			if name, ok := c.Get(TokenNameKey).(string); ok && name != "" {
				attrs = append(attrs, slog.String("token", name))
			}

			level := slog.LevelInfo
			switch {
			case res.Status >= 500:
				level = slog.LevelError
			case res.Status >= 400:
				level = slog.LevelWarn
			}
			slog.LogAttrs(req.Context(), level, "request", attrs...)

			return nil
		}
	}
}
