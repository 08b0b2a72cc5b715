package seed

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

// Store is an in-memory backend for the calendar board. Writes go through
// the real calendar service, so validation errors match the server's.
// Tokens are accepted without checking.
type Store struct {
	events calendar.EventService
	posts  social.PostService
}

// NewStore builds a Store holding the file's events and posts under their
// seed IDs.
func NewStore(ctx context.Context, f *File) (*Store, error) {
	eventRepo := &memEventRepo{events: map[string]calendar.Event{}}
	postRepo := &memPostRepo{posts: map[string]social.Post{}}
	for _, e := range f.Events {
		eventRepo.ids = append(eventRepo.ids, e.ID)
	}
	for _, p := range f.Posts {
		postRepo.ids = append(postRepo.ids, p.ID)
	}

	s := &Store{
		events: calendar.NewEventService(eventRepo),
		posts:  social.NewPostService(postRepo),
	}
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := Import(ctx, f, s.events, s.posts, quiet); err != nil {
		return nil, err
	}
	return s, nil
}

// FetchAllEvents returns every event, newest first.
func (s *Store) FetchAllEvents(ctx context.Context, _ string) ([]calendar.Event, error) {
	return s.events.List(ctx)
}

// CreateCalendarEvent validates and stores a new event.
func (s *Store) CreateCalendarEvent(ctx context.Context, _ string, in calendar.EventInput) (*calendar.Event, error) {
	return s.events.Create(ctx, in)
}

// UpdateCalendarEvent applies an update to event id.
func (s *Store) UpdateCalendarEvent(ctx context.Context, _ string, id string, in calendar.UpdateEventInput) (*calendar.Event, error) {
	return s.events.Update(ctx, id, in)
}

// DeleteCalendarEvent removes event id.
func (s *Store) DeleteCalendarEvent(ctx context.Context, _ string, id string) error {
	return s.events.Delete(ctx, id)
}

// FetchScheduledSocialPosts returns posts with a calendar time.
func (s *Store) FetchScheduledSocialPosts(ctx context.Context, _ string) ([]social.Post, error) {
	return s.posts.ListScheduled(ctx)
}

// --- in-memory repositories ---

// memEventRepo implements calendar.EventRepository. ids holds IDs that
// replace generated ones on the next creates, in order.
type memEventRepo struct {
	mu     sync.RWMutex
	events map[string]calendar.Event
	ids    []string
}

func (r *memEventRepo) Create(_ context.Context, evt *calendar.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ids) > 0 {
		evt.ID, r.ids = r.ids[0], r.ids[1:]
	}
	r.events[evt.ID] = *evt
	return nil
}

func (r *memEventRepo) FindByID(_ context.Context, id string) (*calendar.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	evt, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	return &evt, nil
}

func (r *memEventRepo) Update(_ context.Context, evt *calendar.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[evt.ID] = *evt
	return nil
}

func (r *memEventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

// List matches the SQL repository's order: newest first, then ID.
func (r *memEventRepo) List(_ context.Context) ([]calendar.Event, error) {
	r.mu.RLock()
	out := make([]calendar.Event, 0, len(r.events))
	for _, evt := range r.events {
		out = append(out, evt)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// memPostRepo implements social.PostRepository.
type memPostRepo struct {
	mu    sync.RWMutex
	posts map[string]social.Post
	ids   []string
}

func (r *memPostRepo) Create(_ context.Context, p *social.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ids) > 0 {
		p.ID, r.ids = r.ids[0], r.ids[1:]
	}
	r.posts[p.ID] = *p
	return nil
}

func (r *memPostRepo) FindByID(_ context.Context, id string) (*social.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// ListScheduled matches the SQL repository: posts with a calendar time,
// ordered by that time and then ID.
func (r *memPostRepo) ListScheduled(_ context.Context) ([]social.Post, error) {
	r.mu.RLock()
	out := make([]social.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if _, ok := p.CalendarTime(); ok {
			out = append(out, p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		ti, _ := out[i].CalendarTime()
		tj, _ := out[j].CalendarTime()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
