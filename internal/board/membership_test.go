package board

import (
	"reflect"
	"testing"
	"time"

	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

func TestEventFallsOnDay(t *testing.T) {
	single := event("e1", at(time.February, 14, 23))
	multi := event("e2", at(time.February, 14, 9), until(at(time.February, 16, 1)))

	tests := []struct {
		name string
		e    calendar.Event
		day  int
		want bool
	}{
		{"single on its day", single, 14, true},
		{"single day after", single, 15, false},
		{"multi start inclusive", multi, 14, true},
		{"multi middle", multi, 15, true},
		{"multi end inclusive despite early hour", multi, 16, true},
		{"multi before", multi, 13, false},
		{"multi after", multi, 17, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EventFallsOnDay(tt.e, NewDate(2026, time.February, tt.day)); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPostFallsOnDay(t *testing.T) {
	day := NewDate(2026, time.February, 14)
	if !PostFallsOnDay(scheduledPost("p", at(time.February, 14, 9)), day) {
		t.Error("scheduled post should be on its day")
	}
	published := social.Post{ID: "p", PublishedAt: ptr(at(time.February, 14, 18))}
	if !PostFallsOnDay(published, day) {
		t.Error("published time is the fallback")
	}
	if PostFallsOnDay(social.Post{ID: "draft"}, day) {
		t.Error("post without times is on no day")
	}
}

func TestPostLookup_AttachedPost(t *testing.T) {
	lookup := BuildPostLookup([]social.Post{scheduledPost("p1", at(time.February, 16, 9))})

	if p, ok := lookup.AttachedPost(event("e1", at(time.February, 16, 9), withPost("p1"))); !ok || p.ID != "p1" {
		t.Errorf("expected p1, got %v %v", p.ID, ok)
	}
	if _, ok := lookup.AttachedPost(event("e2", at(time.February, 16, 9))); ok {
		t.Error("event without reference has no post")
	}
	if _, ok := lookup.AttachedPost(event("e3", at(time.February, 16, 9), withPost("gone"))); ok {
		t.Error("dangling reference resolves to absent")
	}
	if _, ok := lookup.AttachedPost(event("e4", at(time.February, 16, 9), withPost(""))); ok {
		t.Error("empty reference resolves to absent")
	}
}

func TestStandalonePostsForDay(t *testing.T) {
	day := NewDate(2026, time.February, 14)
	posts := []social.Post{
		scheduledPost("late", at(time.February, 14, 18)),
		scheduledPost("taken", at(time.February, 14, 9)),
		scheduledPost("early", at(time.February, 14, 8)),
		scheduledPost("other-day", at(time.February, 15, 9)),
	}
	events := []calendar.Event{
		// The referencing event's own date does not matter.
		event("e1", at(time.March, 1, 9), withPost("taken")),
	}

	got := postIDs(StandalonePostsForDay(day, events, posts))
	want := []string{"early", "late"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// A referenced post never shows up as standalone on any day of any grid.
func TestStandalonePosts_NeverReferenced(t *testing.T) {
	events := []calendar.Event{
		event("e1", at(time.February, 2, 9), withPost("p1")),
		event("e2", at(time.February, 20, 9), withPost("p3")),
	}
	var posts []social.Post
	for i, id := range []string{"p1", "p2", "p3", "p4"} {
		posts = append(posts, scheduledPost(id, at(time.February, 3+i*5, 9)))
	}
	referenced := ReferencedPostIDs(events)
	for _, cell := range BuildMonthGrid(2026, time.February, Date{}) {
		for _, p := range StandalonePostsForDay(cell.Date, events, posts) {
			if _, ok := referenced[p.ID]; ok {
				t.Errorf("%s listed as standalone on %s", p.ID, cell.Date)
			}
		}
	}
}
