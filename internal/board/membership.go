package board

import (
	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

// EventFallsOnDay reports whether e occupies day. Without an end date the
// event sits on its start date; with one it covers every date from start to
// end inclusive. Times of day are ignored.
func EventFallsOnDay(e calendar.Event, day Date) bool {
	start := DateOf(e.StartDate)
	if e.EndDate == nil {
		return start == day
	}
	end := DateOf(*e.EndDate)
	return !day.Before(start) && !day.After(end)
}

// PostFallsOnDay reports whether p's calendar time is on day. Posts with
// neither a scheduled nor a published time are on no day.
func PostFallsOnDay(p social.Post, day Date) bool {
	t, ok := p.CalendarTime()
	return ok && DateOf(t) == day
}
