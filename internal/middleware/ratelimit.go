package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// rateLimitEntry tracks request counts for a single IP within a window.
type rateLimitEntry struct {
	count       int
	windowStart time.Time
}

// rateLimiter is a fixed-window per-IP request counter.
type rateLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string]*rateLimitEntry
	now     func() time.Time
}

// allow records a request from ip and reports whether it is within the
// limit, plus the time until the window resets.
func (rl *rateLimiter) allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	entry, ok := rl.entries[ip]
	if !ok || now.Sub(entry.windowStart) >= rl.window {
		rl.entries[ip] = &rateLimitEntry{count: 1, windowStart: now}
		return true, rl.window
	}
	entry.count++
	return entry.count <= rl.max, rl.window - now.Sub(entry.windowStart)
}

// sweep drops entries whose window ended long ago.
func (rl *rateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for ip, entry := range rl.entries {
		if now.Sub(entry.windowStart) > rl.window*2 {
			delete(rl.entries, ip)
		}
	}
}

// RateLimit returns middleware that limits requests per client IP to
// maxRequests within window. Excess requests get a JSON 429 with a
// Retry-After header. maxRequests <= 0 disables the limit.
func RateLimit(maxRequests int, window time.Duration) echo.MiddlewareFunc {
	if maxRequests <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	rl := &rateLimiter{
		max:     maxRequests,
		window:  window,
		entries: make(map[string]*rateLimitEntry),
		now:     time.Now,
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			rl.sweep()
		}
	}()

	return rateLimitMiddleware(rl)
}

func rateLimitMiddleware(rl *rateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, reset := rl.allow(c.RealIP())
			if !ok {
				secs := int(reset.Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error":   http.StatusText(http.StatusTooManyRequests),
					"message": "Rate limit exceeded. Please try again later.",
				})
			}
			return next(c)
		}
	}
}
