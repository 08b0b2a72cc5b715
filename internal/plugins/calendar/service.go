package calendar

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/keyxmakerx/backoffice/internal/apperror"
	"github.com/keyxmakerx/backoffice/internal/sanitize"
)

// maxTitleLen is the longest accepted event title, in runes.
const maxTitleLen = 200

// colorRe accepts #RGB and #RRGGBB hex colors.
var colorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// EventService defines business logic for calendar events.
type EventService interface {
	List(ctx context.Context) ([]Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, input EventInput) (*Event, error)
	Update(ctx context.Context, id string, input UpdateEventInput) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// eventService is the default EventService implementation.
type eventService struct {
	repo EventRepository
	now  func() time.Time
}

// NewEventService creates an EventService backed by the given repository.
func NewEventService(repo EventRepository) EventService {
	return &eventService{repo: repo, now: time.Now}
}

// List returns every event, newest first.
func (s *eventService) List(ctx context.Context) ([]Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("list events: %w", err))
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}

// Get returns an event by ID.
func (s *eventService) Get(ctx context.Context, id string) (*Event, error) {
	evt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("get event: %w", err))
	}
	if evt == nil {
		return nil, apperror.NewNotFound("event not found")
	}
	return evt, nil
}

// Create validates, sanitizes and stores a new event. The ID and timestamps
// are assigned here.
func (s *eventService) Create(ctx context.Context, input EventInput) (*Event, error) {
	now := s.now().UTC()
	evt := &Event{
		ID:                uuid.NewString(),
		Title:             sanitize.PlainText(input.Title),
		Description:       sanitize.OptionalHTML(input.Description),
		EventType:         input.EventType,
		Status:            input.Status,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		AllDay:            input.AllDay,
		Color:             normalizeColor(input.Color),
		SocialMediaPostID: normalizeRef(input.SocialMediaPostID),
		Metadata:          input.Metadata,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if evt.Status == "" {
		evt.Status = StatusPlanned
	}
	if err := validateEvent(evt); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, evt); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("create event: %w", err))
	}
	return evt, nil
}

// Update applies the non-nil fields of input to an existing event and
// re-validates the result.
func (s *eventService) Update(ctx context.Context, id string, input UpdateEventInput) (*Event, error) {
	evt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		evt.Title = sanitize.PlainText(*input.Title)
	}
	if input.Description != nil {
		evt.Description = sanitize.OptionalHTML(input.Description)
	}
	if input.EventType != nil {
		evt.EventType = *input.EventType
	}
	if input.Status != nil {
		evt.Status = *input.Status
	}
	if input.Color != nil {
		evt.Color = normalizeColor(input.Color)
	}
	if input.StartDate != nil {
		evt.StartDate = *input.StartDate
	}
	switch {
	case input.EndDate != nil:
		evt.EndDate = input.EndDate
	case input.ClearEndDate:
		evt.EndDate = nil
	}
	if input.AllDay != nil {
		evt.AllDay = *input.AllDay
	}
	if input.SocialMediaPostID != nil {
		evt.SocialMediaPostID = normalizeRef(input.SocialMediaPostID)
	}
	if input.Metadata != nil {
		evt.Metadata = input.Metadata
	}
	evt.UpdatedAt = s.now().UTC()

	if err := validateEvent(evt); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, evt); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("update event: %w", err))
	}
	return evt, nil
}

// Delete removes an event. Unknown IDs report not found so clients can tell
// a stale cache apart from a failed delete.
func (s *eventService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.NewInternal(fmt.Errorf("delete event: %w", err))
	}
	return nil
}

// validateEvent checks the invariants every stored event must hold.
func validateEvent(evt *Event) error {
	if evt.Title == "" {
		return apperror.NewValidation("event title is required")
	}
	if len([]rune(evt.Title)) > maxTitleLen {
		return apperror.NewValidation(fmt.Sprintf("event title must be at most %d characters", maxTitleLen))
	}
	if !evt.EventType.Valid() {
		return apperror.NewValidation(fmt.Sprintf("unknown event type %q", evt.EventType))
	}
	if !evt.Status.Valid() {
		return apperror.NewValidation(fmt.Sprintf("unknown event status %q", evt.Status))
	}
	if evt.StartDate.IsZero() {
		return apperror.NewValidation("event start date is required")
	}
	if evt.EndDate != nil && evt.EndDate.Before(evt.StartDate) {
		return apperror.NewValidation("event end date must not be before its start date")
	}
	if evt.Color != nil && !colorRe.MatchString(*evt.Color) {
		return apperror.NewValidation("color must be a hex value like #3b82f6")
	}
	return nil
}

// normalizeColor turns blank colors into nil so the type default applies.
func normalizeColor(c *string) *string {
	if c == nil {
		return nil
	}
	return strPtr(sanitize.PlainText(*c))
}

// normalizeRef turns a blank post reference into nil.
func normalizeRef(ref *string) *string {
	if ref == nil {
		return nil
	}
	return strPtr(sanitize.PlainText(*ref))
}
