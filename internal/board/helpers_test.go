package board

import (
	"time"

	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

func at(month time.Month, day, hour int) time.Time {
	return time.Date(2026, month, day, hour, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func event(id string, start time.Time, opts ...func(*calendar.Event)) calendar.Event {
	e := calendar.Event{
		ID:        id,
		Title:     "Event " + id,
		EventType: calendar.TypeOther,
		Status:    calendar.StatusPlanned,
		StartDate: start,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func until(end time.Time) func(*calendar.Event) {
	return func(e *calendar.Event) { e.EndDate = &end }
}

func withPost(id string) func(*calendar.Event) {
	return func(e *calendar.Event) { e.SocialMediaPostID = &id }
}

func ofType(t calendar.EventType) func(*calendar.Event) {
	return func(e *calendar.Event) { e.EventType = t }
}

func withStatus(s calendar.EventStatus) func(*calendar.Event) {
	return func(e *calendar.Event) { e.Status = s }
}

func scheduledPost(id string, when time.Time) social.Post {
	return social.Post{
		ID:          id,
		Platform:    social.PlatformLinkedIn,
		Content:     "Post " + id,
		Status:      social.StatusScheduled,
		ScheduledAt: &when,
	}
}

func postIDs(posts []social.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func eventIDs(events []calendar.Event) []string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}
