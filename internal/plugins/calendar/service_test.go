package calendar

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/keyxmakerx/backoffice/internal/apperror"
)

// --- Mock Repository ---

// mockEventRepo implements EventRepository for testing.
type mockEventRepo struct {
	createFn   func(ctx context.Context, evt *Event) error
	findByIDFn func(ctx context.Context, id string) (*Event, error)
	updateFn   func(ctx context.Context, evt *Event) error
	deleteFn   func(ctx context.Context, id string) error
	listFn     func(ctx context.Context) ([]Event, error)
}

func (m *mockEventRepo) Create(ctx context.Context, evt *Event) error {
	if m.createFn != nil {
		return m.createFn(ctx, evt)
	}
	return nil
}

func (m *mockEventRepo) FindByID(ctx context.Context, id string) (*Event, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockEventRepo) Update(ctx context.Context, evt *Event) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, evt)
	}
	return nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockEventRepo) List(ctx context.Context) ([]Event, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// --- Test Helpers ---

var fixedNow = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func newTestService(repo *mockEventRepo) EventService {
	return &eventService{repo: repo, now: func() time.Time { return fixedNow }}
}

// assertAppError checks that an error is an AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status code %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

func day(d int) time.Time {
	return time.Date(2026, 2, d, 10, 0, 0, 0, time.UTC)
}

func validInput() EventInput {
	return EventInput{
		Title:     "Spring launch",
		EventType: TypeCampaignLaunch,
		StartDate: day(14),
	}
}

// --- Create Tests ---

func TestCreate_Success(t *testing.T) {
	var stored *Event
	repo := &mockEventRepo{
		createFn: func(_ context.Context, evt *Event) error {
			stored = evt
			return nil
		},
	}

	evt, err := newTestService(repo).Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evt.ID == "" {
		t.Error("expected a generated ID")
	}
	if evt.Status != StatusPlanned {
		t.Errorf("expected default status PLANNED, got %s", evt.Status)
	}
	if !evt.CreatedAt.Equal(fixedNow) {
		t.Errorf("expected CreatedAt %v, got %v", fixedNow, evt.CreatedAt)
	}
	if stored != evt {
		t.Error("expected the created event to be persisted")
	}
}

func TestCreate_SanitizesTitleAndDescription(t *testing.T) {
	in := validInput()
	in.Title = "<b>Spring</b>   launch"
	desc := `<p>Kickoff</p><script>alert(1)</script>`
	in.Description = &desc

	evt, err := newTestService(&mockEventRepo{}).Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evt.Title != "Spring launch" {
		t.Errorf("title = %q", evt.Title)
	}
	if evt.Description == nil || *evt.Description != "<p>Kickoff</p>" {
		t.Errorf("description = %v", evt.Description)
	}
}

func TestCreate_ValidationErrors(t *testing.T) {
	before := day(13)
	badColor := "orange"
	long := make([]rune, maxTitleLen+1)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name   string
		mutate func(in *EventInput)
	}{
		{"empty title", func(in *EventInput) { in.Title = "" }},
		{"title only markup", func(in *EventInput) { in.Title = "<br>" }},
		{"title too long", func(in *EventInput) { in.Title = string(long) }},
		{"unknown type", func(in *EventInput) { in.EventType = "PODCAST" }},
		{"unknown status", func(in *EventInput) { in.Status = "DONE" }},
		{"missing start", func(in *EventInput) { in.StartDate = time.Time{} }},
		{"end before start", func(in *EventInput) { in.EndDate = &before }},
		{"bad color", func(in *EventInput) { in.Color = &badColor }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockEventRepo{
				createFn: func(context.Context, *Event) error {
					t.Fatal("repository must not be called for invalid input")
					return nil
				},
			}
			in := validInput()
			tt.mutate(&in)
			_, err := newTestService(repo).Create(context.Background(), in)
			assertAppError(t, err, http.StatusUnprocessableEntity)
		})
	}
}

func TestCreate_BlankColorFallsBackToTypeDefault(t *testing.T) {
	in := validInput()
	blank := "  "
	in.Color = &blank

	evt, err := newTestService(&mockEventRepo{}).Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evt.Color != nil {
		t.Errorf("expected nil color, got %q", *evt.Color)
	}
	if evt.DisplayColor() != TypeCampaignLaunch.DefaultColor() {
		t.Errorf("DisplayColor = %s", evt.DisplayColor())
	}
}

func TestCreate_RepoErrorIsInternal(t *testing.T) {
	repo := &mockEventRepo{
		createFn: func(context.Context, *Event) error { return errors.New("deadlock") },
	}
	_, err := newTestService(repo).Create(context.Background(), validInput())
	assertAppError(t, err, http.StatusInternalServerError)
}

// --- Update Tests ---

func existing() *Event {
	postID := "p1"
	return &Event{
		ID:                "evt-1",
		Title:             "Launch",
		EventType:         TypeCampaignLaunch,
		Status:            StatusPlanned,
		StartDate:         day(14),
		SocialMediaPostID: &postID,
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	var saved *Event
	repo := &mockEventRepo{
		findByIDFn: func(_ context.Context, id string) (*Event, error) { return existing(), nil },
		updateFn: func(_ context.Context, evt *Event) error {
			saved = evt
			return nil
		},
	}

	status := StatusInProgress
	evt, err := newTestService(repo).Update(context.Background(), "evt-1", UpdateEventInput{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evt.Status != StatusInProgress || evt.Title != "Launch" {
		t.Errorf("unexpected event after update: %+v", evt)
	}
	if evt.SocialMediaPostID == nil || *evt.SocialMediaPostID != "p1" {
		t.Error("untouched post reference should be kept")
	}
	if saved == nil || !saved.UpdatedAt.Equal(fixedNow) {
		t.Error("expected UpdatedAt to be stamped and persisted")
	}
}

func TestUpdate_FullUpdateClearsOptionalFields(t *testing.T) {
	repo := &mockEventRepo{
		findByIDFn: func(context.Context, string) (*Event, error) {
			evt := existing()
			end := day(16)
			evt.EndDate = &end
			return evt, nil
		},
	}

	in := validInput()
	evt, err := newTestService(repo).Update(context.Background(), "evt-1", FullUpdate(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evt.EndDate != nil {
		t.Error("expected end date to be cleared")
	}
	if evt.SocialMediaPostID != nil {
		t.Error("expected post reference to be cleared")
	}
	if evt.Title != "Spring launch" {
		t.Errorf("title = %q", evt.Title)
	}
}

func TestUpdate_RevalidatesMergedEvent(t *testing.T) {
	repo := &mockEventRepo{
		findByIDFn: func(context.Context, string) (*Event, error) { return existing(), nil },
		updateFn: func(context.Context, *Event) error {
			t.Fatal("invalid update must not be persisted")
			return nil
		},
	}
	end := day(10)
	_, err := newTestService(repo).Update(context.Background(), "evt-1", UpdateEventInput{EndDate: &end})
	assertAppError(t, err, http.StatusUnprocessableEntity)
}

func TestUpdate_NotFound(t *testing.T) {
	_, err := newTestService(&mockEventRepo{}).Update(context.Background(), "missing", UpdateEventInput{})
	assertAppError(t, err, http.StatusNotFound)
}

// --- Delete / List Tests ---

func TestDelete_NotFound(t *testing.T) {
	err := newTestService(&mockEventRepo{}).Delete(context.Background(), "missing")
	assertAppError(t, err, http.StatusNotFound)
}

func TestDelete_Success(t *testing.T) {
	var deleted string
	repo := &mockEventRepo{
		findByIDFn: func(context.Context, string) (*Event, error) { return existing(), nil },
		deleteFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	if err := newTestService(repo).Delete(context.Background(), "evt-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "evt-1" {
		t.Errorf("deleted %q", deleted)
	}
}

func TestList_NeverNil(t *testing.T) {
	events, err := newTestService(&mockEventRepo{}).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if events == nil {
		t.Error("expected empty slice, got nil")
	}
}

// --- Model Tests ---

func TestEvent_IsMultiDay(t *testing.T) {
	evt := existing()
	if evt.IsMultiDay() {
		t.Error("event without end date is single-day")
	}
	sameDay := day(14).Add(3 * time.Hour)
	evt.EndDate = &sameDay
	if evt.IsMultiDay() {
		t.Error("end on the same date is single-day")
	}
	later := day(16)
	evt.EndDate = &later
	if !evt.IsMultiDay() {
		t.Error("expected multi-day")
	}
}

func TestEnumLabels(t *testing.T) {
	if got := TypeCampaignLaunch.Label(); got != "Campaign Launch" {
		t.Errorf("Label = %q", got)
	}
	if got := StatusInProgress.Label(); got != "In Progress" {
		t.Errorf("Label = %q", got)
	}
	if EventType("PODCAST").DefaultColor() != TypeOther.DefaultColor() {
		t.Error("unknown types should fall back to OTHER's color")
	}
}
