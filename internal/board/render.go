package board

import (
	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

// EventEntry is an event as drawn on the board: its display color and the
// social post it references, when that post is loaded.
type EventEntry struct {
	Event calendar.Event
	Color string
	Post  *social.Post
}

// DayCell is a grid cell with the filtered events that cover the day and
// the unreferenced posts on it.
type DayCell struct {
	CalendarDay
	Events []EventEntry
	Posts  []social.Post
}

// View is one rendered page of the board. Days is set for month and week
// mode; Entries and Posts for list mode.
type View struct {
	Mode    ViewMode
	Label   string
	Today   Date
	Days    []DayCell
	Entries []EventEntry
	Posts   []social.Post
	Loading bool
	Error   string
	Modal   ModalState
}

// snapshot is a consistent copy of the state a render needs.
type snapshot struct {
	events  []calendar.Event
	posts   []social.Post
	lookup  PostLookup
	view    ViewState
	modal   ModalState
	loading bool
	loadErr error
	today   Date
}

func (b *Board) snapshot() snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return snapshot{
		events:  b.events,
		posts:   b.posts,
		lookup:  b.lookup,
		view:    b.view,
		modal:   b.modal,
		loading: b.loading,
		loadErr: b.loadErr,
		today:   b.today(),
	}
}

// Render draws the page for the current mode.
func (b *Board) Render() View {
	s := b.snapshot()
	switch s.view.Mode {
	case ModeWeek:
		return s.grid(BuildWeekGrid(s.view.Reference, s.today))
	case ModeList:
		return s.list()
	default:
		return s.grid(BuildMonthGrid(s.view.Reference.Year, s.view.Reference.Month, s.today))
	}
}

// MonthView draws the month around the reference date regardless of mode.
func (b *Board) MonthView() View {
	s := b.snapshot()
	s.view.Mode = ModeMonth
	return s.grid(BuildMonthGrid(s.view.Reference.Year, s.view.Reference.Month, s.today))
}

// WeekView draws the week around the reference date regardless of mode.
func (b *Board) WeekView() View {
	s := b.snapshot()
	s.view.Mode = ModeWeek
	return s.grid(BuildWeekGrid(s.view.Reference, s.today))
}

// ListView draws every filtered event followed by the standalone posts.
func (b *Board) ListView() View {
	s := b.snapshot()
	s.view.Mode = ModeList
	return s.list()
}

func (s snapshot) header() View {
	v := View{
		Mode:    s.view.Mode,
		Label:   s.view.Label(),
		Today:   s.today,
		Loading: s.loading,
		Modal:   s.modal,
	}
	if s.loadErr != nil {
		v.Error = MsgLoadFailed
	}
	return v
}

func (s snapshot) entry(e calendar.Event) EventEntry {
	entry := EventEntry{Event: e, Color: e.DisplayColor()}
	if p, ok := s.lookup.AttachedPost(e); ok {
		entry.Post = &p
	}
	return entry
}

func (s snapshot) grid(days []CalendarDay) View {
	v := s.header()
	filtered := s.view.Filter.Apply(s.events)
	referenced := ReferencedPostIDs(s.events)

	v.Days = make([]DayCell, len(days))
	for i, d := range days {
		cell := DayCell{CalendarDay: d}
		for _, e := range filtered {
			if EventFallsOnDay(e, d.Date) {
				cell.Events = append(cell.Events, s.entry(e))
			}
		}
		cell.Posts = standaloneForDay(d.Date, referenced, s.posts)
		v.Days[i] = cell
	}
	return v
}

func (s snapshot) list() View {
	v := s.header()
	filtered := s.view.Filter.Apply(s.events)
	v.Entries = make([]EventEntry, len(filtered))
	for i, e := range filtered {
		v.Entries[i] = s.entry(e)
	}
	v.Posts = standalonePosts(ReferencedPostIDs(s.events), s.posts)
	return v
}
