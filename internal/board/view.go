package board

import (
	"fmt"
	"strings"

	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
)

// ViewMode selects how the board lays out its content.
type ViewMode string

// View modes.
const (
	ModeMonth ViewMode = "month"
	ModeWeek  ViewMode = "week"
	ModeList  ViewMode = "list"
)

// ParseViewMode parses a mode name, case-insensitively.
func ParseViewMode(s string) (ViewMode, error) {
	switch m := ViewMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeMonth, ModeWeek, ModeList:
		return m, nil
	}
	return "", fmt.Errorf("unknown view mode %q (want month, week or list)", s)
}

// ViewState is what the board is looking at: a mode, a reference date and
// the active filter. Transitions return a new value.
type ViewState struct {
	Mode      ViewMode
	Reference Date
	Filter    Filter
}

// NewViewState returns the initial state: month mode around today with no
// filter.
func NewViewState(today Date) ViewState {
	return ViewState{Mode: ModeMonth, Reference: today, Filter: Filter{Type: All, Status: All}}
}

// WithMode switches the layout. The reference date is kept.
func (v ViewState) WithMode(m ViewMode) ViewState {
	v.Mode = m
	return v
}

// WithReference jumps to d.
func (v ViewState) WithReference(d Date) ViewState {
	v.Reference = d
	return v
}

// Next moves forward one page: a week in week mode, a month otherwise.
func (v ViewState) Next() ViewState {
	return v.shift(1)
}

// Previous moves back one page.
func (v ViewState) Previous() ViewState {
	return v.shift(-1)
}

func (v ViewState) shift(n int) ViewState {
	if v.Mode == ModeWeek {
		v.Reference = v.Reference.AddDays(7 * n)
	} else {
		v.Reference = v.Reference.AddMonths(n)
	}
	return v
}

// Today resets the reference date to today in any mode.
func (v ViewState) Today(today Date) ViewState {
	v.Reference = today
	return v
}

// WithTypeFilter restricts events to type t (All clears it).
func (v ViewState) WithTypeFilter(t calendar.EventType) ViewState {
	v.Filter.Type = t
	return v
}

// WithStatusFilter restricts events to status s (All clears it).
func (v ViewState) WithStatusFilter(s calendar.EventStatus) ViewState {
	v.Filter.Status = s
	return v
}

// Label returns the header text for the current page: "February 2026" in
// month mode, "February 15–21, 2026" or "Jan 29 – Feb 4, 2026" in week mode,
// and "All events" in list mode.
func (v ViewState) Label() string {
	switch v.Mode {
	case ModeWeek:
		return weekLabel(v.Reference)
	case ModeList:
		return "All events"
	default:
		return fmt.Sprintf("%s %d", v.Reference.Month, v.Reference.Year)
	}
}

func weekLabel(ref Date) string {
	start := ref.StartOfWeek()
	end := start.AddDays(6)
	if start.Month == end.Month {
		return fmt.Sprintf("%s %d–%d, %d", start.Month, start.Day, end.Day, end.Year)
	}
	return fmt.Sprintf("%s %d – %s %d, %d",
		start.Month.String()[:3], start.Day, end.Month.String()[:3], end.Day, end.Year)
}
