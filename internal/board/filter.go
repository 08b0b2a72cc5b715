package board

import (
	"fmt"
	"sort"
	"strings"

	"github.com/keyxmakerx/backoffice/internal/apperror"
	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
)

// All is the filter value that lets every type or status through.
const All = "ALL"

// Filter narrows the events shown on the board. An empty or ALL field
// matches everything. Social posts are never filtered.
type Filter struct {
	Type   calendar.EventType
	Status calendar.EventStatus
}

// ParseFilter builds a Filter from user input. Values are case-insensitive;
// "" and "all" mean no restriction. A value outside the event type or
// status enumeration is a validation error naming the accepted values.
func ParseFilter(eventType, status string) (Filter, error) {
	f := Filter{
		Type:   calendar.EventType(normalizeFilterValue(eventType)),
		Status: calendar.EventStatus(normalizeFilterValue(status)),
	}
	if !isAll(string(f.Type)) && !f.Type.Valid() {
		names := make([]string, len(calendar.EventTypes))
		for i, t := range calendar.EventTypes {
			names[i] = string(t)
		}
		return Filter{}, apperror.NewValidation(fmt.Sprintf("unknown event type %q; use one of %s",
			eventType, strings.Join(names, ", ")))
	}
	if !isAll(string(f.Status)) && !f.Status.Valid() {
		names := make([]string, len(calendar.EventStatuses))
		for i, st := range calendar.EventStatuses {
			names[i] = string(st)
		}
		return Filter{}, apperror.NewValidation(fmt.Sprintf("unknown event status %q; use one of %s",
			status, strings.Join(names, ", ")))
	}
	return f, nil
}

func normalizeFilterValue(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	if v == "" {
		return All
	}
	return v
}

// IsZero reports whether f lets every event through.
func (f Filter) IsZero() bool {
	return isAll(string(f.Type)) && isAll(string(f.Status))
}

// Matches reports whether e passes both the type and the status predicate.
func (f Filter) Matches(e calendar.Event) bool {
	if !isAll(string(f.Type)) && e.EventType != f.Type {
		return false
	}
	if !isAll(string(f.Status)) && e.Status != f.Status {
		return false
	}
	return true
}

// Apply returns the events matching f, sorted ascending by start. Events
// with equal starts keep their input order. The input is not modified.
func (f Filter) Apply(events []calendar.Event) []calendar.Event {
	out := make([]calendar.Event, 0, len(events))
	for _, e := range events {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

func isAll(v string) bool {
	return v == "" || v == All
}
