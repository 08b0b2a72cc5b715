// Package apiclient is the HTTP implementation of board.Backend against the
// back-office REST API. Non-2xx responses are turned back into
// apperror.AppErrors carrying the server's status and message.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/keyxmakerx/backoffice/internal/apperror"
	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

// DefaultTimeout bounds a single API call when the caller's context has no
// deadline.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Client talks to the REST API under BaseURL + "/api/v1".
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a Client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server URL %q must be http or https", baseURL)
	}
	c := &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: "calctl",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// listEnvelope is the {"data": [...], "total": n} shape of list endpoints.
type listEnvelope[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// errorBody is the {"error", "message"} shape of error responses.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// FetchAllEvents returns every calendar event.
func (c *Client) FetchAllEvents(ctx context.Context, token string) ([]calendar.Event, error) {
	var env listEnvelope[calendar.Event]
	if err := c.do(ctx, token, http.MethodGet, "/calendar-events", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// CreateCalendarEvent creates an event and returns the stored version.
func (c *Client) CreateCalendarEvent(ctx context.Context, token string, in calendar.EventInput) (*calendar.Event, error) {
	var evt calendar.Event
	if err := c.do(ctx, token, http.MethodPost, "/calendar-events", in, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}

// UpdateCalendarEvent updates event id and returns the stored version.
func (c *Client) UpdateCalendarEvent(ctx context.Context, token, id string, in calendar.UpdateEventInput) (*calendar.Event, error) {
	var evt calendar.Event
	if err := c.do(ctx, token, http.MethodPut, "/calendar-events/"+url.PathEscape(id), in, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}

// DeleteCalendarEvent deletes event id.
func (c *Client) DeleteCalendarEvent(ctx context.Context, token, id string) error {
	return c.do(ctx, token, http.MethodDelete, "/calendar-events/"+url.PathEscape(id), nil, nil)
}

// FetchScheduledSocialPosts returns every post with a calendar time.
func (c *Client) FetchScheduledSocialPosts(ctx context.Context, token string) ([]social.Post, error) {
	var env listEnvelope[social.Post]
	if err := c.do(ctx, token, http.MethodGet, "/social-posts/scheduled", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// FetchCalendarFeed returns the raw iCalendar feed.
func (c *Client) FetchCalendarFeed(ctx context.Context, token string) ([]byte, error) {
	req, err := c.newRequest(ctx, token, http.MethodGet, "/calendar.ics", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET /calendar.ics: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading calendar feed: %w", err)
	}
	return body, nil
}

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1" + path
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, token, method, path string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), rdr)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do sends a JSON request and decodes a JSON response into out (unless out
// is nil).
func (c *Client) do(ctx context.Context, token, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, token, method, path, body)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// decodeError maps an error response to an AppError with the server's
// status and message.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	msg := ""
	if json.Unmarshal(raw, &body) == nil {
		msg = body.Message
	}
	return apperror.FromStatus(resp.StatusCode, msg)
}
