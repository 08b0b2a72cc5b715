package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/keyxmakerx/backoffice/internal/board"
	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

// excerptLen is how much post content fits on one line.
const excerptLen = 48

// typeColors approximates each event type's hex color with a terminal one.
var typeColors = map[calendar.EventType]color.Attribute{
	calendar.TypeBlogPublish:     color.FgBlue,
	calendar.TypeSocialPost:      color.FgHiMagenta,
	calendar.TypeCampaignLaunch:  color.FgHiYellow,
	calendar.TypeEmailCampaign:   color.FgMagenta,
	calendar.TypeWebinar:         color.FgCyan,
	calendar.TypeWorkshop:        color.FgGreen,
	calendar.TypeProductRelease:  color.FgRed,
	calendar.TypeContentDeadline: color.FgYellow,
	calendar.TypeMeeting:         color.FgHiBlack,
	calendar.TypeOther:           color.FgWhite,
}

// Printer writes board views to a terminal.
type Printer struct {
	w   io.Writer
	loc *time.Location
}

// NewPrinter creates a Printer that formats times in loc.
func NewPrinter(w io.Writer, loc *time.Location) *Printer {
	if loc == nil {
		loc = time.Local
	}
	return &Printer{w: w, loc: loc}
}

var (
	titleStyle = color.New(color.Bold, color.Underline)
	faint      = color.New(color.Faint)
	bold       = color.New(color.Bold)
	todayStyle = color.New(color.Bold, color.ReverseVideo)
	errStyle   = color.New(color.FgRed, color.Bold)
	postStyle  = color.New(color.FgHiMagenta, color.Italic)
)

// View prints a rendered board page.
func (p *Printer) View(v board.View) {
	_, _ = titleStyle.Fprintln(p.w, v.Label)
	if v.Error != "" {
		_, _ = errStyle.Fprintln(p.w, v.Error)
		return
	}
	switch v.Mode {
	case board.ModeMonth:
		p.monthGrid(v)
		p.agenda(v.Days, false)
	case board.ModeWeek:
		p.agenda(v.Days, true)
	default:
		p.list(v)
	}
}

// monthGrid prints the compact Sunday-first grid. Days with entries are
// bold, today is reversed and days outside the month are faint.
func (p *Printer) monthGrid(v board.View) {
	_, _ = faint.Fprintln(p.w, "Su Mo Tu We Th Fr Sa")
	for i, cell := range v.Days {
		style := color.New()
		switch {
		case cell.IsToday:
			style = todayStyle
		case !cell.IsCurrentMonth:
			style = faint
		case len(cell.Events) > 0 || len(cell.Posts) > 0:
			style = bold
		}
		_, _ = style.Fprintf(p.w, "%2d", cell.Date.Day)
		if i%7 == 6 {
			fmt.Fprintln(p.w)
		} else {
			fmt.Fprint(p.w, " ")
		}
	}
	fmt.Fprintln(p.w)
}

// agenda prints one block per day with entries. With showEmpty every day
// gets a block.
func (p *Printer) agenda(days []board.DayCell, showEmpty bool) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	rows := 0
	for _, cell := range days {
		if !cell.IsCurrentMonth && !showEmpty {
			continue
		}
		if len(cell.Events) == 0 && len(cell.Posts) == 0 {
			if showEmpty {
				tbl.AddRow(p.dayLabel(cell), "", faint.Sprint("nothing scheduled"))
				rows++
			}
			continue
		}
		label := p.dayLabel(cell)
		for _, e := range cell.Events {
			tbl.AddRow(label, p.eventWhen(e.Event, cell.Date), p.eventLine(e))
			label = ""
			rows++
		}
		for _, post := range cell.Posts {
			at, _ := post.CalendarTime()
			tbl.AddRow(label, at.In(p.loc).Format("15:04"), p.postLine(post))
			label = ""
			rows++
		}
	}
	if rows == 0 {
		_, _ = faint.Fprintln(p.w, "No events.")
		return
	}
	fmt.Fprintln(p.w, tbl)
}

func (p *Printer) list(v board.View) {
	if len(v.Entries) == 0 && len(v.Posts) == 0 {
		_, _ = faint.Fprintln(p.w, "No events.")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	for _, e := range v.Entries {
		tbl.AddRow(faint.Sprint(e.Event.ID), p.eventSpan(e.Event), p.eventLine(e), e.Event.Status.Label())
	}
	if len(v.Posts) > 0 {
		tbl.AddRow("", "", "", "")
		tbl.AddRow("", bold.Sprint("Standalone posts"), "", "")
		for _, post := range v.Posts {
			at, _ := post.CalendarTime()
			tbl.AddRow(faint.Sprint(post.ID), at.In(p.loc).Format("Mon Jan 2 15:04"), p.postLine(post), strings.ToLower(string(post.Status)))
		}
	}
	fmt.Fprintln(p.w, tbl)
}

// EventDetail prints one event and its attached post.
func (p *Printer) EventDetail(e calendar.Event, post *social.Post) {
	_, _ = titleStyle.Fprintln(p.w, e.Title)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 72
	tbl.AddRow(bold.Sprint("ID"), e.ID)
	tbl.AddRow(bold.Sprint("Type"), p.typeSwatch(e.EventType)+" "+e.EventType.Label())
	tbl.AddRow(bold.Sprint("Status"), e.Status.Label())
	tbl.AddRow(bold.Sprint("When"), p.eventSpan(e))
	tbl.AddRow(bold.Sprint("Color"), e.DisplayColor())
	if e.Description != nil && *e.Description != "" {
		tbl.AddRow(bold.Sprint("Description"), *e.Description)
	}
	if post != nil {
		tbl.AddRow(bold.Sprint("Social post"), fmt.Sprintf("%s (%s)", p.postLine(*post), post.ID))
	} else if e.HasPost() {
		tbl.AddRow(bold.Sprint("Social post"), faint.Sprintf("%s (not scheduled)", *e.SocialMediaPostID))
	}
	fmt.Fprintln(p.w, tbl)
}

// PostDetail prints one social post.
func (p *Printer) PostDetail(post social.Post) {
	_, _ = titleStyle.Fprintf(p.w, "%s post\n", post.Platform.Label())
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 72
	tbl.AddRow(bold.Sprint("ID"), post.ID)
	tbl.AddRow(bold.Sprint("Status"), strings.ToLower(string(post.Status)))
	if at, ok := post.CalendarTime(); ok {
		tbl.AddRow(bold.Sprint("When"), at.In(p.loc).Format("Mon Jan 2, 2006 15:04"))
	}
	tbl.AddRow(bold.Sprint("Content"), post.Content)
	if len(post.Hashtags) > 0 {
		tbl.AddRow(bold.Sprint("Hashtags"), "#"+strings.Join(post.Hashtags, " #"))
	}
	fmt.Fprintln(p.w, tbl)
}

// Error prints an inline dialog error.
func (p *Printer) Error(msg string) {
	_, _ = errStyle.Fprintln(p.w, msg)
}

func (p *Printer) dayLabel(cell board.DayCell) string {
	label := cell.Date.Time(p.loc).Format("Mon Jan 2")
	if cell.IsToday {
		return todayStyle.Sprint(label)
	}
	return bold.Sprint(label)
}

func (p *Printer) typeSwatch(t calendar.EventType) string {
	attr, ok := typeColors[t]
	if !ok {
		attr = color.FgWhite
	}
	return color.New(attr).Sprint("●")
}

func (p *Printer) eventLine(e board.EventEntry) string {
	line := fmt.Sprintf("%s %s %s", p.typeSwatch(e.Event.EventType), e.Event.Title, faint.Sprintf("[%s]", e.Event.ID))
	if e.Post != nil {
		line += " " + postStyle.Sprintf("↳ %s", e.Post.Platform.Label())
	}
	if e.Event.Status == calendar.StatusCanceled {
		line = color.New(color.CrossedOut).Sprint(line)
	}
	return line
}

func (p *Printer) postLine(post social.Post) string {
	return postStyle.Sprintf("[%s] %s", post.Platform.Label(), post.Excerpt(excerptLen))
}

// eventWhen is the time column of an agenda row for day.
func (p *Printer) eventWhen(e calendar.Event, day board.Date) string {
	if e.AllDay {
		return "all day"
	}
	start := e.StartDate.In(p.loc)
	if board.DateOf(start) != day {
		return "cont."
	}
	return start.Format("15:04")
}

// eventSpan describes an event's whole duration.
func (p *Printer) eventSpan(e calendar.Event) string {
	start := e.StartDate.In(p.loc)
	if e.AllDay {
		if e.IsMultiDay() {
			return start.Format("Mon Jan 2") + " – " + e.EndDate.In(p.loc).Format("Mon Jan 2")
		}
		return start.Format("Mon Jan 2") + ", all day"
	}
	s := start.Format("Mon Jan 2 15:04")
	if e.EndDate == nil {
		return s
	}
	end := e.EndDate.In(p.loc)
	if board.DateOf(end) == board.DateOf(start) {
		return s + "–" + end.Format("15:04")
	}
	return s + " – " + end.Format("Mon Jan 2 15:04")
}
