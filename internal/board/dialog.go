package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/keyxmakerx/backoffice/internal/apperror"
	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

// ModalKind tags which dialog, if any, is open. At most one is open at a
// time.
type ModalKind int

// Modal kinds.
const (
	ModalNone ModalKind = iota
	ModalCreating
	ModalEditing
	ModalEventDetail
	ModalPostDetail
	ModalConfirmDelete
)

// String returns the kind's name, used in logs and CLI output.
func (k ModalKind) String() string {
	switch k {
	case ModalCreating:
		return "creating"
	case ModalEditing:
		return "editing"
	case ModalEventDetail:
		return "viewingEventDetail"
	case ModalPostDetail:
		return "viewingPostDetail"
	case ModalConfirmDelete:
		return "confirmingDelete"
	}
	return "none"
}

// ModalState is the open dialog and its payload. Event is set for editing,
// event detail and delete confirmation; Post for post detail; Form for
// creating and editing. Error is the inline error shown in the dialog.
// Transitions return a new value.
type ModalState struct {
	Kind  ModalKind
	Event *calendar.Event
	Post  *social.Post
	Form  EventForm
	Error string
}

// IsOpen reports whether any dialog is open.
func (m ModalState) IsOpen() bool {
	return m.Kind != ModalNone
}

// IsFormOpen reports whether the create or edit form is open.
func (m ModalState) IsFormOpen() bool {
	return m.Kind == ModalCreating || m.Kind == ModalEditing
}

// OpenCreate opens a blank create form, with the start date prefilled when
// prefill is set (clicking a day cell).
func (m ModalState) OpenCreate(prefill *Date) ModalState {
	return ModalState{Kind: ModalCreating, Form: NewEventForm(prefill)}
}

// OpenEdit opens the edit form seeded from e. It replaces any open dialog,
// so editing from a detail view leaves only the form open.
func (m ModalState) OpenEdit(e calendar.Event) ModalState {
	return ModalState{Kind: ModalEditing, Event: &e, Form: FormFromEvent(e)}
}

// OpenEventDetail shows e's details. Ignored while a form is open.
func (m ModalState) OpenEventDetail(e calendar.Event) ModalState {
	if m.IsFormOpen() {
		return m
	}
	return ModalState{Kind: ModalEventDetail, Event: &e}
}

// OpenPostDetail shows p's details. Ignored while a form is open.
func (m ModalState) OpenPostDetail(p social.Post) ModalState {
	if m.IsFormOpen() {
		return m
	}
	return ModalState{Kind: ModalPostDetail, Post: &p}
}

// RequestDelete asks for confirmation to delete the event being edited or
// viewed. Other states are returned unchanged.
func (m ModalState) RequestDelete() ModalState {
	if (m.Kind != ModalEditing && m.Kind != ModalEventDetail) || m.Event == nil {
		return m
	}
	return ModalState{Kind: ModalConfirmDelete, Event: m.Event}
}

// CancelDelete dismisses the delete confirmation.
func (m ModalState) CancelDelete() ModalState {
	if m.Kind != ModalConfirmDelete {
		return m
	}
	return ModalState{}
}

// CloseAll closes every dialog.
func (m ModalState) CloseAll() ModalState {
	return ModalState{}
}

// WithForm applies fn to a copy of the open form. Ignored when no form is
// open.
func (m ModalState) WithForm(fn func(f *EventForm)) ModalState {
	if !m.IsFormOpen() {
		return m
	}
	fn(&m.Form)
	return m
}

// WithError sets the inline error message ("" clears it).
func (m ModalState) WithError(msg string) ModalState {
	m.Error = msg
	return m
}

// --- Event form ---

// Layouts accepted for form date fields, tried in order.
var formDateLayouts = []string{
	time.DateOnly,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	formDateTimeSecondsLayout,
	time.RFC3339,
}

// Timed events are written back into a form to the minute, or with seconds
// and any fraction when the time is not on a whole minute, so an unchanged
// edit saves the same instant.
const (
	formDateTimeLayout        = "2006-01-02T15:04"
	formDateTimeSecondsLayout = "2006-01-02T15:04:05.999999999"
)

// EventForm holds the raw user input of the create/edit dialog.
type EventForm struct {
	Title             string
	Description       string
	EventType         string
	Status            string
	Color             string
	StartDate         string
	EndDate           string
	AllDay            bool
	SocialMediaPostID string
}

// NewEventForm returns the blank create form.
func NewEventForm(prefill *Date) EventForm {
	f := EventForm{
		EventType: string(calendar.TypeOther),
		Status:    string(calendar.StatusPlanned),
		AllDay:    true,
	}
	if prefill != nil {
		f.StartDate = prefill.String()
	}
	return f
}

// FormFromEvent seeds a form with e's current values.
func FormFromEvent(e calendar.Event) EventForm {
	f := EventForm{
		Title:     e.Title,
		EventType: string(e.EventType),
		Status:    string(e.Status),
		StartDate: formatFormDate(e.StartDate, e.AllDay),
		AllDay:    e.AllDay,
	}
	if e.Description != nil {
		f.Description = *e.Description
	}
	if e.Color != nil {
		f.Color = *e.Color
	}
	if e.EndDate != nil {
		f.EndDate = formatFormDate(*e.EndDate, e.AllDay)
	}
	if e.SocialMediaPostID != nil {
		f.SocialMediaPostID = *e.SocialMediaPostID
	}
	return f
}

func formatFormDate(t time.Time, allDay bool) string {
	if allDay {
		return t.Format(time.DateOnly)
	}
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return t.Format(formDateTimeSecondsLayout)
	}
	return t.Format(formDateTimeLayout)
}

// Validate performs the checks that run before any network call: a title
// and a start date are required.
func (f EventForm) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return apperror.NewValidation("Title is required.")
	}
	if strings.TrimSpace(f.StartDate) == "" {
		return apperror.NewValidation("Start date is required.")
	}
	return nil
}

// Input validates f and converts it into an EventInput, reading dates as
// wall-clock times in loc.
func (f EventForm) Input(loc *time.Location) (calendar.EventInput, error) {
	if err := f.Validate(); err != nil {
		return calendar.EventInput{}, err
	}
	if loc == nil {
		loc = time.Local
	}

	start, err := parseFormDate(f.StartDate, loc)
	if err != nil {
		return calendar.EventInput{}, apperror.NewValidation(fmt.Sprintf("Invalid start date %q.", f.StartDate))
	}
	in := calendar.EventInput{
		Title:             strings.TrimSpace(f.Title),
		Description:       optional(f.Description),
		EventType:         calendar.EventType(strings.ToUpper(strings.TrimSpace(f.EventType))),
		Status:            calendar.EventStatus(strings.ToUpper(strings.TrimSpace(f.Status))),
		Color:             optional(f.Color),
		StartDate:         start,
		AllDay:            f.AllDay,
		SocialMediaPostID: optional(f.SocialMediaPostID),
	}
	if in.EventType == "" {
		in.EventType = calendar.TypeOther
	}
	if strings.TrimSpace(f.EndDate) != "" {
		end, err := parseFormDate(f.EndDate, loc)
		if err != nil {
			return calendar.EventInput{}, apperror.NewValidation(fmt.Sprintf("Invalid end date %q.", f.EndDate))
		}
		in.EndDate = &end
	}
	return in, nil
}

func parseFormDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range formDateLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t.In(loc), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
