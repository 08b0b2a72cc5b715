// Package icalfeed renders the calendar as an iCalendar (RFC 5545) feed:
// one VEVENT per calendar event, with its attached post folded into the
// description, plus one VEVENT per standalone scheduled post.
package icalfeed

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/keyxmakerx/backoffice/internal/board"
	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

// ContentType is the MIME type of a serialized feed.
const ContentType = "text/calendar; charset=utf-8"

// Options controls feed metadata.
type Options struct {
	// Name is the calendar's display name (X-WR-CALNAME).
	Name string
	// Location decides the calendar day of all-day events. Defaults to UTC.
	Location *time.Location
	// Domain is the right-hand side of generated UIDs.
	Domain string
	// Now stamps DTSTAMP. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = "Marketing Calendar"
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Domain == "" {
		o.Domain = "backoffice"
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// postSummaryLen is how much post content goes into a summary line.
const postSummaryLen = 60

// Build assembles the feed. Posts referenced by an event are folded into
// that event; the rest become their own entries.
func Build(events []calendar.Event, posts []social.Post, opts Options) *ical.Calendar {
	opts = opts.withDefaults()
	stamp := opts.Now().UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//backoffice//marketing calendar//EN")
	cal.SetXWRCalName(opts.Name)
	cal.SetXWRTimezone(opts.Location.String())

	lookup := board.BuildPostLookup(posts)
	for _, e := range events {
		addEvent(cal, e, lookup, opts, stamp)
	}
	for _, p := range board.StandalonePosts(events, posts) {
		addPost(cal, p, opts, stamp)
	}
	return cal
}

// Write serializes the feed to w.
func Write(w io.Writer, events []calendar.Event, posts []social.Post, opts Options) error {
	_, err := io.WriteString(w, Build(events, posts, opts).Serialize())
	return err
}

func addEvent(cal *ical.Calendar, e calendar.Event, lookup board.PostLookup, opts Options, stamp time.Time) {
	ve := cal.AddEvent(fmt.Sprintf("event-%s@%s", e.ID, opts.Domain))
	ve.SetDtStampTime(stamp)
	if !e.CreatedAt.IsZero() {
		ve.SetCreatedTime(e.CreatedAt)
	}
	if !e.UpdatedAt.IsZero() {
		ve.SetModifiedAt(e.UpdatedAt)
	}
	ve.SetSummary(e.Title)
	ve.SetStatus(objectStatus(e.Status))
	ve.SetProperty(ical.ComponentPropertyCategories, string(e.EventType))
	ve.SetProperty(ical.ComponentProperty("COLOR"), e.DisplayColor())

	if e.AllDay {
		first := board.DateOf(e.StartDate.In(opts.Location))
		last := first
		if e.EndDate != nil {
			last = board.DateOf(e.EndDate.In(opts.Location))
		}
		// DTEND of an all-day entry is exclusive.
		ve.SetAllDayStartAt(first.Time(time.UTC))
		ve.SetAllDayEndAt(last.AddDays(1).Time(time.UTC))
	} else {
		ve.SetStartAt(e.StartDate)
		if e.EndDate != nil {
			ve.SetEndAt(*e.EndDate)
		}
	}

	var desc []string
	if e.Description != nil && *e.Description != "" {
		desc = append(desc, *e.Description)
	}
	if p, ok := lookup.AttachedPost(e); ok {
		desc = append(desc, postLine(p))
	}
	if len(desc) > 0 {
		ve.SetDescription(strings.Join(desc, "\n\n"))
	}
}

func addPost(cal *ical.Calendar, p social.Post, opts Options, stamp time.Time) {
	at, _ := p.CalendarTime()
	ve := cal.AddEvent(fmt.Sprintf("post-%s@%s", p.ID, opts.Domain))
	ve.SetDtStampTime(stamp)
	ve.SetSummary(fmt.Sprintf("[%s] %s", p.Platform.Label(), p.Excerpt(postSummaryLen)))
	ve.SetStartAt(at)
	ve.SetEndAt(at)
	ve.SetProperty(ical.ComponentPropertyCategories, string(calendar.TypeSocialPost))
	ve.SetDescription(postLine(p))
	if p.Status == social.StatusPublished {
		ve.SetStatus(ical.ObjectStatusConfirmed)
	} else {
		ve.SetStatus(ical.ObjectStatusTentative)
	}
}

func postLine(p social.Post) string {
	line := fmt.Sprintf("%s post (%s): %s", p.Platform.Label(), strings.ToLower(string(p.Status)), p.Content)
	if len(p.Hashtags) > 0 {
		line += "\n#" + strings.Join(p.Hashtags, " #")
	}
	return line
}

func objectStatus(s calendar.EventStatus) ical.ObjectStatus {
	switch s {
	case calendar.StatusCanceled:
		return ical.ObjectStatusCancelled
	case calendar.StatusPostponed, calendar.StatusPlanned:
		return ical.ObjectStatusTentative
	default:
		return ical.ObjectStatusConfirmed
	}
}
