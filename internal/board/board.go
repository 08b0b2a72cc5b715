package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/keyxmakerx/backoffice/internal/apperror"
	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

// Messages shown to the user when a backend call fails.
const (
	MsgLoadFailed   = "Failed to load calendar data."
	MsgSaveFailed   = "Failed to save event. Please try again."
	MsgDeleteFailed = "Failed to delete event. Please try again."
)

// ErrBusy is returned when a mutation is started while another one is
// still in flight.
var ErrBusy = errors.New("board: a save is already in progress")

// ErrSuperseded is returned by a Load whose results were discarded because
// a newer Load started before it finished. The newer Load's outcome is the
// one reflected on the board.
var ErrSuperseded = errors.New("board: load superseded by a newer load")

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the logger for backend failures. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) { b.logger = l }
}

// WithClock sets the clock used to decide "today".
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// WithLocation sets the location whose wall clock decides which date an
// instant falls on. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(b *Board) { b.loc = loc }
}

// Board is the calendar screen's state: a cache of events and posts
// mirrored from the backend, the view and dialog state, and the load and
// save flags. Local writes are applied as soon as the backend confirms
// them; the cache is never reconciled otherwise.
//
// The mutex guards state only and is never held across a backend call.
type Board struct {
	backend Backend
	tokens  TokenSource
	logger  *slog.Logger
	now     func() time.Time
	loc     *time.Location

	mu      sync.Mutex
	events  []calendar.Event
	posts   []social.Post
	lookup  PostLookup
	view    ViewState
	modal   ModalState
	loading bool
	loadErr error
	saving  bool
	loadSeq uint64
}

// New creates a Board over backend. Call Load to fill it.
func New(backend Backend, tokens TokenSource, opts ...Option) *Board {
	b := &Board{
		backend: backend,
		tokens:  tokens,
		logger:  slog.Default(),
		now:     time.Now,
		loc:     time.Local,
		lookup:  PostLookup{},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.view = NewViewState(b.today())
	return b
}

// Today returns the current date in the board's location.
func (b *Board) Today() Date {
	return b.today()
}

func (b *Board) today() Date {
	return DateOf(b.now().In(b.loc))
}

// Location returns the board's location.
func (b *Board) Location() *time.Location {
	return b.loc
}

// --- Loading ---

// Load fetches events and posts concurrently and replaces the cache when
// both succeed. A failure of either leaves the cache untouched and records
// a load error carrying MsgLoadFailed. If ctx is cancelled the results are
// discarded and ctx.Err() is returned; if a newer Load started meanwhile they
// are discarded and ErrSuperseded is returned.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	b.loadSeq++
	seq := b.loadSeq
	b.loading = true
	b.loadErr = nil
	b.mu.Unlock()

	events, posts, err := b.fetchAll(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	if seq != b.loadSeq {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return ErrSuperseded
	}
	b.loading = false
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		b.logger.Warn("calendar load failed", slog.Any("error", err))
		b.loadErr = apperror.NewUpstream(MsgLoadFailed, err)
		return b.loadErr
	}

	b.events = events
	b.posts = posts
	b.lookup = BuildPostLookup(posts)
	return nil
}

// Retry reloads after a failed load.
func (b *Board) Retry(ctx context.Context) error {
	return b.Load(ctx)
}

func (b *Board) fetchAll(ctx context.Context) ([]calendar.Event, []social.Post, error) {
	token, err := b.tokens.Token(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("getting token: %w", err)
	}

	var (
		events []calendar.Event
		posts  []social.Post
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		evts, err := b.backend.FetchAllEvents(gctx, token)
		if err != nil {
			return fmt.Errorf("fetching events: %w", err)
		}
		events = evts
		return nil
	})
	g.Go(func() error {
		ps, err := b.backend.FetchScheduledSocialPosts(gctx, token)
		if err != nil {
			return fmt.Errorf("fetching social posts: %w", err)
		}
		posts = ps
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	for i := range events {
		events[i] = b.localEvent(events[i])
	}
	for i := range posts {
		posts[i] = b.localPost(posts[i])
	}
	return events, posts, nil
}

// localEvent moves e's instants into the board's location so DateOf reads
// the local wall-clock date.
func (b *Board) localEvent(e calendar.Event) calendar.Event {
	e.StartDate = e.StartDate.In(b.loc)
	if e.EndDate != nil {
		end := e.EndDate.In(b.loc)
		e.EndDate = &end
	}
	return e
}

func (b *Board) localPost(p social.Post) social.Post {
	if p.ScheduledAt != nil {
		t := p.ScheduledAt.In(b.loc)
		p.ScheduledAt = &t
	}
	if p.PublishedAt != nil {
		t := p.PublishedAt.In(b.loc)
		p.PublishedAt = &t
	}
	return p
}

// Loading reports whether a load is in progress.
func (b *Board) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// LoadError returns the error of the last load, or nil.
func (b *Board) LoadError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loadErr
}

// Saving reports whether a mutation is in flight.
func (b *Board) Saving() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saving
}

// Events returns a copy of the cached events in cache order.
func (b *Board) Events() []calendar.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]calendar.Event(nil), b.events...)
}

// Posts returns a copy of the cached posts.
func (b *Board) Posts() []social.Post {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]social.Post(nil), b.posts...)
}

// FindEvent returns the cached event with id.
func (b *Board) FindEvent(id string) (calendar.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(id)
	if i < 0 {
		return calendar.Event{}, false
	}
	return b.events[i], true
}

// FindPost returns the cached post with id.
func (b *Board) FindPost(id string) (social.Post, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.lookup[id]
	return p, ok
}

// AttachedPost returns the post referenced by e, if loaded.
func (b *Board) AttachedPost(e calendar.Event) (social.Post, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lookup.AttachedPost(e)
}

func (b *Board) indexOf(id string) int {
	for i := range b.events {
		if b.events[i].ID == id {
			return i
		}
	}
	return -1
}

// --- View state ---

// View returns the current view state.
func (b *Board) View() ViewState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view
}

func (b *Board) updateView(fn func(ViewState) ViewState) ViewState {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view = fn(b.view)
	return b.view
}

// SetMode switches between month, week and list layouts.
func (b *Board) SetMode(m ViewMode) ViewState {
	return b.updateView(func(v ViewState) ViewState { return v.WithMode(m) })
}

// Next pages forward.
func (b *Board) Next() ViewState {
	return b.updateView(ViewState.Next)
}

// Previous pages back.
func (b *Board) Previous() ViewState {
	return b.updateView(ViewState.Previous)
}

// GoToday jumps back to the current date.
func (b *Board) GoToday() ViewState {
	today := b.today()
	return b.updateView(func(v ViewState) ViewState { return v.Today(today) })
}

// JumpTo moves the reference date to d.
func (b *Board) JumpTo(d Date) ViewState {
	return b.updateView(func(v ViewState) ViewState { return v.WithReference(d) })
}

// SetTypeFilter restricts shown events to type t.
func (b *Board) SetTypeFilter(t calendar.EventType) ViewState {
	return b.updateView(func(v ViewState) ViewState { return v.WithTypeFilter(t) })
}

// SetStatusFilter restricts shown events to status s.
func (b *Board) SetStatusFilter(s calendar.EventStatus) ViewState {
	return b.updateView(func(v ViewState) ViewState { return v.WithStatusFilter(s) })
}

// SetFilter replaces both filters.
func (b *Board) SetFilter(f Filter) ViewState {
	return b.updateView(func(v ViewState) ViewState {
		v.Filter = f
		return v
	})
}

// --- Dialogs ---

// Modal returns the current dialog state.
func (b *Board) Modal() ModalState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.modal
}

func (b *Board) updateModal(fn func(ModalState) ModalState) ModalState {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modal = fn(b.modal)
	return b.modal
}

// OpenCreate opens the create form, prefilled with day when non-nil.
func (b *Board) OpenCreate(day *Date) ModalState {
	return b.updateModal(func(m ModalState) ModalState { return m.OpenCreate(day) })
}

// OpenEdit opens the edit form for the cached event id.
func (b *Board) OpenEdit(id string) (ModalState, error) {
	return b.withEvent(id, ModalState.OpenEdit)
}

// OpenEventDetail shows the cached event id.
func (b *Board) OpenEventDetail(id string) (ModalState, error) {
	return b.withEvent(id, ModalState.OpenEventDetail)
}

func (b *Board) withEvent(id string, fn func(ModalState, calendar.Event) ModalState) (ModalState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(id)
	if i < 0 {
		return b.modal, apperror.NewNotFound(fmt.Sprintf("event %s is not on the calendar", id))
	}
	b.modal = fn(b.modal, b.events[i])
	return b.modal, nil
}

// OpenPostDetail shows the cached post id.
func (b *Board) OpenPostDetail(id string) (ModalState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.lookup[id]
	if !ok {
		return b.modal, apperror.NewNotFound(fmt.Sprintf("post %s is not on the calendar", id))
	}
	b.modal = b.modal.OpenPostDetail(p)
	return b.modal, nil
}

// EditForm applies fn to the open form.
func (b *Board) EditForm(fn func(f *EventForm)) ModalState {
	return b.updateModal(func(m ModalState) ModalState { return m.WithForm(fn) })
}

// RequestDelete asks to confirm deleting the event being edited or viewed.
func (b *Board) RequestDelete() ModalState {
	return b.updateModal(ModalState.RequestDelete)
}

// CancelDelete dismisses the delete confirmation.
func (b *Board) CancelDelete() ModalState {
	return b.updateModal(ModalState.CancelDelete)
}

// CloseAll closes every dialog.
func (b *Board) CloseAll() ModalState {
	return b.updateModal(ModalState.CloseAll)
}

// --- Mutations ---

// beginSave takes the in-flight lock.
func (b *Board) beginSave() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saving {
		return ErrBusy
	}
	b.saving = true
	b.modal = b.modal.WithError("")
	return nil
}

func (b *Board) endSave() {
	b.mu.Lock()
	b.saving = false
	b.mu.Unlock()
}

// failDialog records msg as the open dialog's inline error.
func (b *Board) failDialog(msg string) {
	b.mu.Lock()
	b.modal = b.modal.WithError(msg)
	b.mu.Unlock()
}

// saveError converts a backend write failure into the error returned to the
// caller and the message shown in the dialog. Validation errors from the
// server keep their own message.
func (b *Board) saveError(op string, err error) error {
	if apperror.IsValidation(err) {
		b.failDialog(apperror.SafeMessage(err))
		return err
	}
	b.logger.Warn("calendar save failed", slog.String("op", op), slog.Any("error", err))
	b.failDialog(MsgSaveFailed)
	return apperror.NewUpstream(MsgSaveFailed, err)
}

// Create validates form, creates the event on the backend and prepends it
// to the cache. The create dialog closes on success and stays open with
// its form and an inline error on failure.
func (b *Board) Create(ctx context.Context, form EventForm) (*calendar.Event, error) {
	if err := b.beginSave(); err != nil {
		return nil, err
	}
	defer b.endSave()

	in, err := form.Input(b.loc)
	if err != nil {
		b.failDialog(apperror.SafeMessage(err))
		return nil, err
	}
	token, err := b.tokens.Token(ctx)
	if err != nil {
		return nil, b.saveError("create", err)
	}
	created, err := b.backend.CreateCalendarEvent(ctx, token, in)
	if err != nil {
		return nil, b.saveError("create", err)
	}

	evt := b.localEvent(*created)
	b.mu.Lock()
	b.events = append([]calendar.Event{evt}, b.events...)
	if b.modal.Kind == ModalCreating {
		b.modal = b.modal.CloseAll()
	}
	b.mu.Unlock()
	return &evt, nil
}

// Update validates form, replaces event id on the backend with the form's
// values and swaps it into the cache. Blank optional fields clear the
// stored values.
func (b *Board) Update(ctx context.Context, id string, form EventForm) (*calendar.Event, error) {
	if err := b.beginSave(); err != nil {
		return nil, err
	}
	defer b.endSave()

	in, err := form.Input(b.loc)
	if err != nil {
		b.failDialog(apperror.SafeMessage(err))
		return nil, err
	}
	token, err := b.tokens.Token(ctx)
	if err != nil {
		return nil, b.saveError("update", err)
	}
	updated, err := b.backend.UpdateCalendarEvent(ctx, token, id, calendar.FullUpdate(in))
	if err != nil {
		return nil, b.saveError("update", err)
	}

	evt := b.localEvent(*updated)
	b.mu.Lock()
	if i := b.indexOf(id); i >= 0 {
		// Copy so renders holding the previous slice stay consistent.
		events := append([]calendar.Event(nil), b.events...)
		events[i] = evt
		b.events = events
	} else {
		b.events = append([]calendar.Event{evt}, b.events...)
	}
	if b.modal.Kind == ModalEditing {
		b.modal = b.modal.CloseAll()
	}
	b.mu.Unlock()
	return &evt, nil
}

// Delete removes event id on the backend and from the cache, closing every
// dialog. On failure the confirmation stays open with an inline error.
func (b *Board) Delete(ctx context.Context, id string) error {
	if err := b.beginSave(); err != nil {
		return err
	}
	defer b.endSave()

	token, err := b.tokens.Token(ctx)
	if err == nil {
		err = b.backend.DeleteCalendarEvent(ctx, token, id)
	}
	if err != nil {
		b.logger.Warn("calendar delete failed", slog.String("event_id", id), slog.Any("error", err))
		b.failDialog(MsgDeleteFailed)
		return apperror.NewUpstream(MsgDeleteFailed, err)
	}

	b.mu.Lock()
	if i := b.indexOf(id); i >= 0 {
		b.events = append(b.events[:i:i], b.events[i+1:]...)
	}
	b.modal = b.modal.CloseAll()
	b.mu.Unlock()
	return nil
}

// Submit saves the open form: creating calls Create, editing calls Update.
func (b *Board) Submit(ctx context.Context) (*calendar.Event, error) {
	m := b.Modal()
	switch {
	case m.Kind == ModalCreating:
		return b.Create(ctx, m.Form)
	case m.Kind == ModalEditing && m.Event != nil:
		return b.Update(ctx, m.Event.ID, m.Form)
	}
	return nil, apperror.NewBadRequest("no event form is open")
}

// ConfirmDelete deletes the event of the open delete confirmation.
func (b *Board) ConfirmDelete(ctx context.Context) error {
	m := b.Modal()
	if m.Kind != ModalConfirmDelete || m.Event == nil {
		return apperror.NewBadRequest("no delete is awaiting confirmation")
	}
	return b.Delete(ctx, m.Event.ID)
}
