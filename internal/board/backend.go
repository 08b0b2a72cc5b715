package board

import (
	"context"

	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

// Backend is the persistence collaborator the board reads from and writes
// to. Implementations: apiclient.Client (REST API) and seed.Store
// (in-memory seed data).
type Backend interface {
	FetchAllEvents(ctx context.Context, token string) ([]calendar.Event, error)
	CreateCalendarEvent(ctx context.Context, token string, in calendar.EventInput) (*calendar.Event, error)
	UpdateCalendarEvent(ctx context.Context, token, id string, in calendar.UpdateEventInput) (*calendar.Event, error)
	DeleteCalendarEvent(ctx context.Context, token, id string) error
	FetchScheduledSocialPosts(ctx context.Context, token string) ([]social.Post, error)
}

// TokenSource supplies the bearer token for backend calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}
