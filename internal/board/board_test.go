package board

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/keyxmakerx/backoffice/internal/apperror"
	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

// fakeBackend is an in-memory Backend with injectable failures.
type fakeBackend struct {
	mu     sync.Mutex
	events []calendar.Event
	posts  []social.Post
	calls  map[string]int
	tokens []string

	fetchEventsErr error
	fetchPostsErr  error
	writeErr       error
	deleteErr      error

	// block, when set, holds every call until it is closed.
	block chan struct{}
	// started is signalled when a blocked call begins.
	started chan string
}

func newFakeBackend(events []calendar.Event, posts []social.Post) *fakeBackend {
	return &fakeBackend{events: events, posts: posts, calls: map[string]int{}}
}

func (f *fakeBackend) enter(ctx context.Context, op, token string) error {
	f.mu.Lock()
	f.calls[op]++
	f.tokens = append(f.tokens, token)
	block, started := f.block, f.started
	f.mu.Unlock()

	if block != nil {
		if started != nil {
			started <- op
		}
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *fakeBackend) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) FetchAllEvents(ctx context.Context, token string) ([]calendar.Event, error) {
	if err := f.enter(ctx, "fetchEvents", token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchEventsErr != nil {
		return nil, f.fetchEventsErr
	}
	return append([]calendar.Event(nil), f.events...), nil
}

func (f *fakeBackend) FetchScheduledSocialPosts(ctx context.Context, token string) ([]social.Post, error) {
	if err := f.enter(ctx, "fetchPosts", token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchPostsErr != nil {
		return nil, f.fetchPostsErr
	}
	return append([]social.Post(nil), f.posts...), nil
}

func (f *fakeBackend) CreateCalendarEvent(ctx context.Context, token string, in calendar.EventInput) (*calendar.Event, error) {
	if err := f.enter(ctx, "create", token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	e := calendar.Event{
		ID:                "new-" + in.Title,
		Title:             in.Title,
		EventType:         in.EventType,
		Status:            in.Status,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		SocialMediaPostID: in.SocialMediaPostID,
	}
	f.events = append(f.events, e)
	return &e, nil
}

func (f *fakeBackend) UpdateCalendarEvent(ctx context.Context, token, id string, in calendar.UpdateEventInput) (*calendar.Event, error) {
	if err := f.enter(ctx, "update", token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	e := calendar.Event{ID: id, Title: *in.Title, EventType: *in.EventType, StartDate: *in.StartDate, EndDate: in.EndDate}
	if in.SocialMediaPostID != nil && *in.SocialMediaPostID != "" {
		e.SocialMediaPostID = in.SocialMediaPostID
	}
	return &e, nil
}

func (f *fakeBackend) DeleteCalendarEvent(ctx context.Context, token, id string) error {
	if err := f.enter(ctx, "delete", token); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteErr
}

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestBoard(backend Backend, today time.Time) *Board {
	return New(backend, StaticToken("tok"),
		WithClock(func() time.Time { return today }),
		WithLocation(time.UTC),
		WithLogger(quietLogger),
	)
}

// --- February 2026 scenario ---

func februaryFixture() *fakeBackend {
	return newFakeBackend(
		[]calendar.Event{
			event("launch", at(time.February, 16, 10), withPost("p1"), ofType(calendar.TypeCampaignLaunch)),
			event("webinar", at(time.February, 18, 15), until(at(time.February, 20, 17)), ofType(calendar.TypeWebinar)),
			event("dangling", at(time.February, 25, 9), withPost("missing")),
		},
		[]social.Post{
			scheduledPost("p1", at(time.February, 16, 9)),
			scheduledPost("p2", at(time.February, 14, 12)),
			{ID: "draft", Platform: social.PlatformTwitter, Status: social.StatusDraft},
		},
	)
}

func cellFor(t *testing.T, v View, d Date) DayCell {
	t.Helper()
	for _, c := range v.Days {
		if c.Date == d {
			return c
		}
	}
	t.Fatalf("no cell for %s", d)
	return DayCell{}
}

func TestBoard_February2026(t *testing.T) {
	b := newTestBoard(februaryFixture(), at(time.February, 10, 12))
	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	v := b.Render()
	if v.Mode != ModeMonth || v.Label != "February 2026" || len(v.Days) != 35 {
		t.Fatalf("unexpected view header: %s %q %d", v.Mode, v.Label, len(v.Days))
	}

	feb14 := cellFor(t, v, NewDate(2026, time.February, 14))
	if ids := postIDs(feb14.Posts); len(ids) != 1 || ids[0] != "p2" {
		t.Errorf("Feb 14 standalone posts = %v, want [p2]", ids)
	}

	feb16 := cellFor(t, v, NewDate(2026, time.February, 16))
	if len(feb16.Posts) != 0 {
		t.Errorf("p1 is attached, Feb 16 standalone posts = %v", postIDs(feb16.Posts))
	}
	if len(feb16.Events) != 1 || feb16.Events[0].Event.ID != "launch" {
		t.Fatalf("Feb 16 events = %+v", feb16.Events)
	}
	if feb16.Events[0].Post == nil || feb16.Events[0].Post.ID != "p1" {
		t.Error("launch should carry attached post p1")
	}
	if feb16.Events[0].Color != calendar.TypeCampaignLaunch.DefaultColor() {
		t.Errorf("color = %s", feb16.Events[0].Color)
	}

	for _, d := range []int{18, 19, 20} {
		cell := cellFor(t, v, NewDate(2026, time.February, d))
		if len(cell.Events) != 1 || cell.Events[0].Event.ID != "webinar" {
			t.Errorf("Feb %d should show the webinar", d)
		}
	}

	feb25 := cellFor(t, v, NewDate(2026, time.February, 25))
	if len(feb25.Events) != 1 || feb25.Events[0].Post != nil {
		t.Error("dangling reference renders the event without a post")
	}

	if !cellFor(t, v, NewDate(2026, time.February, 10)).IsToday {
		t.Error("Feb 10 should be today")
	}
}

func TestBoard_FiltersHideEventsNotPosts(t *testing.T) {
	b := newTestBoard(februaryFixture(), at(time.February, 10, 12))
	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	b.SetTypeFilter(calendar.TypeWebinar)

	v := b.Render()
	feb16 := cellFor(t, v, NewDate(2026, time.February, 16))
	if len(feb16.Events) != 0 {
		t.Error("launch should be filtered out")
	}
	// p1 stays attached to the hidden event, so it is not standalone either.
	if len(feb16.Posts) != 0 {
		t.Error("p1 must not become standalone when its event is filtered out")
	}
	if len(cellFor(t, v, NewDate(2026, time.February, 14)).Posts) != 1 {
		t.Error("standalone posts ignore filters")
	}
}

func TestBoard_WeekAndListViews(t *testing.T) {
	b := newTestBoard(februaryFixture(), at(time.February, 10, 12))
	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	b.JumpTo(NewDate(2026, time.February, 18))

	week := b.WeekView()
	if week.Label != "February 15–21, 2026" || len(week.Days) != 7 {
		t.Fatalf("week view %q with %d days", week.Label, len(week.Days))
	}

	list := b.ListView()
	if list.Label != "All events" {
		t.Errorf("list label %q", list.Label)
	}
	var ids []string
	for _, e := range list.Entries {
		ids = append(ids, e.Event.ID)
	}
	if len(ids) != 3 || ids[0] != "launch" || ids[1] != "webinar" || ids[2] != "dangling" {
		t.Errorf("list order = %v", ids)
	}
	if got := postIDs(list.Posts); len(got) != 1 || got[0] != "p2" {
		t.Errorf("list standalone posts = %v (drafts without time are omitted)", got)
	}

	b.SetMode(ModeList)
	if b.Render().Label != "All events" {
		t.Error("Render should dispatch on mode")
	}
}

// --- Loading ---

func TestBoard_LoadFailure(t *testing.T) {
	backend := februaryFixture()
	backend.fetchPostsErr = errors.New("connection refused")
	b := newTestBoard(backend, at(time.February, 10, 12))

	err := b.Load(context.Background())
	assertUpstream(t, err, MsgLoadFailed)
	if b.Loading() {
		t.Error("loading flag must clear on failure")
	}
	if len(b.Events()) != 0 {
		t.Error("a joint load failure must not populate events")
	}
	if v := b.Render(); v.Error != MsgLoadFailed {
		t.Errorf("render error = %q", v.Error)
	}

	backend.mu.Lock()
	backend.fetchPostsErr = nil
	backend.mu.Unlock()
	if err := b.Retry(context.Background()); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if b.LoadError() != nil || len(b.Events()) != 3 {
		t.Error("retry should recover")
	}
}

func TestBoard_LoadFetchesConcurrently(t *testing.T) {
	backend := februaryFixture()
	backend.block = make(chan struct{})
	backend.started = make(chan string, 2)
	b := newTestBoard(backend, at(time.February, 10, 12))

	done := make(chan error, 1)
	go func() { done <- b.Load(context.Background()) }()

	// Both fetches must be in flight before either is released.
	for i := 0; i < 2; i++ {
		select {
		case <-backend.started:
		case <-time.After(2 * time.Second):
			t.Fatal("fetches did not run concurrently")
		}
	}
	if !b.Loading() {
		t.Error("expected loading flag during fetch")
	}
	close(backend.block)
	if err := <-done; err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Loading() {
		t.Error("loading flag must clear")
	}
}

func TestBoard_LoadCancelledDiscardsResults(t *testing.T) {
	backend := februaryFixture()
	backend.block = make(chan struct{})
	backend.started = make(chan string, 2)
	b := newTestBoard(backend, at(time.February, 10, 12))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Load(ctx) }()
	<-backend.started
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	close(backend.block)
	if len(b.Events()) != 0 {
		t.Error("cancelled load must not populate the board")
	}
	if b.LoadError() != nil {
		t.Error("cancellation is not a load error")
	}
}

func TestBoard_OverlappingLoadReportsSuperseded(t *testing.T) {
	backend := februaryFixture()
	backend.block = make(chan struct{})
	backend.started = make(chan string, 4)
	b := newTestBoard(backend, at(time.February, 10, 12))

	waitStarted := func() {
		t.Helper()
		for i := 0; i < 2; i++ {
			select {
			case <-backend.started:
			case <-time.After(2 * time.Second):
				t.Fatal("fetches did not start")
			}
		}
	}

	older := make(chan error, 1)
	go func() { older <- b.Load(context.Background()) }()
	waitStarted()

	newer := make(chan error, 1)
	go func() { newer <- b.Load(context.Background()) }()
	waitStarted()

	close(backend.block)
	if err := <-older; !errors.Is(err, ErrSuperseded) {
		t.Errorf("older load err = %v, want ErrSuperseded", err)
	}
	if err := <-newer; err != nil {
		t.Errorf("newer load err = %v", err)
	}
	if b.Loading() || len(b.Events()) != 3 {
		t.Errorf("board should hold the newer load: loading=%v events=%d", b.Loading(), len(b.Events()))
	}
}

// --- Mutations ---

func loadedBoard(t *testing.T) (*Board, *fakeBackend) {
	t.Helper()
	backend := februaryFixture()
	b := newTestBoard(backend, at(time.February, 10, 12))
	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return b, backend
}

func TestBoard_CreateSuccess(t *testing.T) {
	b, backend := loadedBoard(t)
	day := NewDate(2026, time.February, 14)
	b.OpenCreate(&day)
	b.EditForm(func(f *EventForm) { f.Title = "Valentine" })

	evt, err := b.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if b.Modal().IsOpen() {
		t.Error("create dialog should close on success")
	}
	if got := b.Events()[0].ID; got != evt.ID {
		t.Errorf("new event should be prepended, first is %s", got)
	}
	if backend.tokens[len(backend.tokens)-1] != "tok" {
		t.Error("backend calls must carry the token")
	}
	if len(cellFor(t, b.MonthView(), day).Events) != 1 {
		t.Error("new event should render on Feb 14")
	}
}

func TestBoard_CreateValidationSkipsNetwork(t *testing.T) {
	b, backend := loadedBoard(t)
	b.OpenCreate(nil)

	_, err := b.Submit(context.Background())
	if !apperror.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if backend.callCount("create") != 0 {
		t.Error("invalid forms must not reach the backend")
	}
	if m := b.Modal(); m.Kind != ModalCreating || m.Error != "Title is required." {
		t.Errorf("dialog state %+v", m)
	}
}

func TestBoard_CreateFailureKeepsForm(t *testing.T) {
	b, backend := loadedBoard(t)
	backend.writeErr = errors.New("503")
	b.OpenCreate(nil)
	b.EditForm(func(f *EventForm) {
		f.Title = "Launch"
		f.StartDate = "2026-02-20"
	})

	_, err := b.Submit(context.Background())
	assertUpstream(t, err, MsgSaveFailed)

	m := b.Modal()
	if m.Kind != ModalCreating || m.Form.Title != "Launch" || m.Error != MsgSaveFailed {
		t.Errorf("dialog state %+v", m)
	}
	if len(b.Events()) != 3 {
		t.Error("failed create must not touch the cache")
	}
	if b.Saving() {
		t.Error("in-flight flag must clear")
	}
}

func TestBoard_ServerValidationMessageSurfaced(t *testing.T) {
	b, backend := loadedBoard(t)
	backend.writeErr = apperror.NewValidation("color must be a hex value like #3b82f6")
	b.OpenCreate(nil)
	b.EditForm(func(f *EventForm) {
		f.Title = "Launch"
		f.StartDate = "2026-02-20"
		f.Color = "orange"
	})

	_, err := b.Submit(context.Background())
	if !apperror.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := b.Modal().Error; got != "color must be a hex value like #3b82f6" {
		t.Errorf("inline error = %q", got)
	}
}

func TestBoard_UpdateReplacesByID(t *testing.T) {
	b, _ := loadedBoard(t)
	if _, err := b.OpenEventDetail("launch"); err != nil {
		t.Fatalf("OpenEventDetail: %v", err)
	}
	if _, err := b.OpenEdit("launch"); err != nil {
		t.Fatalf("OpenEdit: %v", err)
	}
	if m := b.Modal(); m.Kind != ModalEditing {
		t.Fatalf("kind = %s", m.Kind)
	}
	b.EditForm(func(f *EventForm) { f.Title = "Launch v2" })

	if _, err := b.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if b.Modal().IsOpen() {
		t.Error("edit dialog should close")
	}
	e, ok := b.FindEvent("launch")
	if !ok || e.Title != "Launch v2" {
		t.Errorf("cached event = %+v", e)
	}
	if len(b.Events()) != 3 {
		t.Error("update must not add events")
	}
}

func TestBoard_UnchangedEditKeepsExactTimes(t *testing.T) {
	start := time.Date(2026, 2, 16, 10, 0, 30, 0, time.UTC)
	end := time.Date(2026, 2, 16, 11, 45, 10, 0, time.UTC)
	backend := newFakeBackend([]calendar.Event{event("e1", start, until(end))}, nil)
	b := newTestBoard(backend, at(time.February, 10, 12))
	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := b.OpenEdit("e1"); err != nil {
		t.Fatalf("OpenEdit: %v", err)
	}
	if _, err := b.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	e, ok := b.FindEvent("e1")
	if !ok {
		t.Fatal("event missing after edit")
	}
	if !e.StartDate.Equal(start) {
		t.Errorf("start = %v, want %v", e.StartDate, start)
	}
	if e.EndDate == nil || !e.EndDate.Equal(end) {
		t.Errorf("end = %v, want %v", e.EndDate, end)
	}
}

func TestBoard_DeleteClosesEveryDialog(t *testing.T) {
	for _, open := range []func(b *Board){
		func(b *Board) { b.OpenEdit("launch") },
		func(b *Board) { b.OpenEventDetail("launch") },
	} {
		b, _ := loadedBoard(t)
		open(b)
		if m := b.RequestDelete(); m.Kind != ModalConfirmDelete {
			t.Fatalf("kind = %s", m.Kind)
		}
		if err := b.ConfirmDelete(context.Background()); err != nil {
			t.Fatalf("ConfirmDelete: %v", err)
		}
		if m := b.Modal(); m.IsOpen() {
			t.Errorf("dialog %s still open", m.Kind)
		}
		if _, ok := b.FindEvent("launch"); ok {
			t.Error("deleted event still cached")
		}
		// p1 lost its event, so it is standalone now.
		feb16 := cellFor(t, b.MonthView(), NewDate(2026, time.February, 16))
		if ids := postIDs(feb16.Posts); len(ids) != 1 || ids[0] != "p1" {
			t.Errorf("Feb 16 standalone posts after delete = %v", ids)
		}
	}
}

func TestBoard_DeleteFailureKeepsConfirm(t *testing.T) {
	b, backend := loadedBoard(t)
	backend.deleteErr = errors.New("timeout")
	b.OpenEventDetail("launch")
	b.RequestDelete()

	assertUpstream(t, b.ConfirmDelete(context.Background()), MsgDeleteFailed)
	if m := b.Modal(); m.Kind != ModalConfirmDelete || m.Error != MsgDeleteFailed {
		t.Errorf("dialog state %+v", m)
	}
	if _, ok := b.FindEvent("launch"); !ok {
		t.Error("event must stay cached after a failed delete")
	}
}

func TestBoard_SecondMutationIsBusy(t *testing.T) {
	b, backend := loadedBoard(t)
	backend.mu.Lock()
	backend.block = make(chan struct{})
	backend.started = make(chan string, 1)
	backend.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- b.Delete(context.Background(), "launch") }()
	<-backend.started

	if !b.Saving() {
		t.Error("expected in-flight flag")
	}
	if _, err := b.Create(context.Background(), EventForm{Title: "x", StartDate: "2026-02-01"}); !errors.Is(err, ErrBusy) {
		t.Errorf("second mutation err = %v, want ErrBusy", err)
	}
	if err := b.Delete(context.Background(), "webinar"); !errors.Is(err, ErrBusy) {
		t.Errorf("second delete err = %v, want ErrBusy", err)
	}

	close(backend.block)
	if err := <-done; err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if backend.callCount("create") != 0 || backend.callCount("delete") != 1 {
		t.Error("busy calls must not reach the backend")
	}
}

func TestBoard_OpenUnknown(t *testing.T) {
	b, _ := loadedBoard(t)
	if _, err := b.OpenEdit("nope"); !apperror.IsNotFound(err) {
		t.Errorf("OpenEdit unknown: %v", err)
	}
	if _, err := b.OpenPostDetail("nope"); !apperror.IsNotFound(err) {
		t.Errorf("OpenPostDetail unknown: %v", err)
	}
	if _, err := b.Submit(context.Background()); err == nil {
		t.Error("Submit without a form should fail")
	}
}

func TestBoard_NavigationPreservesDayOneRule(t *testing.T) {
	b := newTestBoard(newFakeBackend(nil, nil), time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC))
	if v := b.Previous(); v.Reference != NewDate(2026, time.February, 1) {
		t.Errorf("previous = %s", v.Reference)
	}
	if v := b.GoToday(); v.Reference != NewDate(2026, time.March, 31) {
		t.Errorf("today = %s", v.Reference)
	}
}

func TestBoard_IngestUsesBoardLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 20:00 UTC on Feb 13 is Feb 14 in Tokyo.
	backend := newFakeBackend(nil, []social.Post{scheduledPost("p", time.Date(2026, 2, 13, 20, 0, 0, 0, time.UTC))})
	b := New(backend, StaticToken("tok"), WithLocation(tokyo), WithLogger(quietLogger),
		WithClock(func() time.Time { return at(time.February, 10, 0) }))
	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cellFor(t, b.MonthView(), NewDate(2026, time.February, 14)).Posts) != 1 {
		t.Error("post should land on the local date")
	}
}

func assertUpstream(t *testing.T, err error, msg string) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != http.StatusBadGateway || appErr.Message != msg {
		t.Errorf("got %d %q, want 502 %q", appErr.Code, appErr.Message, msg)
	}
}
