package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newTestContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_ListScheduled(t *testing.T) {
	at := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	repo := &mockPostRepo{
		listScheduledFn: func(context.Context) ([]Post, error) {
			return []Post{{ID: "p2", Platform: PlatformTwitter, Content: "Giveaway", ScheduledAt: &at}}, nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/api/v1/social-posts/scheduled")

	if err := NewHandler(newTestService(repo)).ListScheduled(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Data  []Post `json:"data"`
		Total int    `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Total != 1 || resp.Data[0].ID != "p2" || !resp.Data[0].ScheduledAt.Equal(at) {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandler_ListScheduled_EmptyIsArray(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/api/v1/social-posts/scheduled")
	if err := NewHandler(newTestService(&mockPostRepo{})).ListScheduled(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if string(resp["data"]) != "[]" {
		t.Errorf("data = %s, want []", resp["data"])
	}
}

func TestHandler_GetPost_NotFound(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/api/v1/social-posts/nope")
	c.SetParamNames("pid")
	c.SetParamValues("nope")
	assertAppError(t, NewHandler(newTestService(&mockPostRepo{})).GetPost(c), http.StatusNotFound)
}
