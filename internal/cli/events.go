package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/backoffice/internal/board"
	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
)

// eventFlags are the form fields settable from the command line.
type eventFlags struct {
	title       string
	description string
	eventType   string
	status      string
	color       string
	start       string
	end         string
	post        string
	allDay      bool
}

// addEventFlags registers the form flags. Its --type and --status shadow the
// global filter flags of the same name.
func addEventFlags(cmd *cobra.Command, o *eventFlags) {
	f := cmd.Flags()
	f.StringVar(&o.title, "title", "", "Event title.")
	f.StringVar(&o.description, "description", "", "Event description.")
	f.StringVar(&o.eventType, "type", "", fmt.Sprintf("Event type, one of %s.", typeNames()))
	f.StringVar(&o.status, "status", "", "Event status (PLANNED, IN_PROGRESS, COMPLETED, CANCELED, POSTPONED).")
	f.StringVar(&o.color, "color", "", `Hex color such as "#f97316"; empty uses the type's color.`)
	f.StringVar(&o.start, "start", "", `Start, "2026-02-16" or "2026-02-16T10:00".`)
	f.StringVar(&o.end, "end", "", "Inclusive end, same formats as --start.")
	f.StringVar(&o.post, "post", "", "ID of the social post this event promotes.")
	f.BoolVar(&o.allDay, "all-day", true, "All-day event. Defaults to false when --start has a time.")
}

// apply copies the flags the user set into f.
func (o *eventFlags) apply(cmd *cobra.Command) func(f *board.EventForm) {
	set := cmd.Flags().Changed
	return func(f *board.EventForm) {
		if set("title") {
			f.Title = o.title
		}
		if set("description") {
			f.Description = o.description
		}
		if set("type") {
			f.EventType = o.eventType
		}
		if set("status") {
			f.Status = o.status
		}
		if set("color") {
			f.Color = o.color
		}
		if set("start") {
			f.StartDate = o.start
			if !set("all-day") {
				f.AllDay = !hasClock(o.start)
			}
		}
		if set("end") {
			f.EndDate = o.end
		}
		if set("post") {
			f.SocialMediaPostID = o.post
		}
		if set("all-day") {
			f.AllDay = o.allDay
		}
	}
}

func hasClock(s string) bool {
	return strings.ContainsAny(strings.TrimSpace(s), "T ")
}

func typeNames() string {
	names := make([]string, len(calendar.EventTypes))
	for i, t := range calendar.EventTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func addEvents(topLevel *cobra.Command, a *app) {
	var createOpts eventFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a calendar event.",
		Example: `
calctl create --title "Spring launch" --type CAMPAIGN_LAUNCH --start 2026-02-16T10:00 --post p1
calctl create --title "Content sprint" --type CONTENT_DEADLINE --start 2026-02-09 --end 2026-02-11`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			b.OpenCreate(nil)
			b.EditForm(createOpts.apply(cmd))
			return a.submit(cmd, b, "Created")
		},
	}
	addEventFlags(create, &createOpts)

	var editOpts eventFlags
	edit := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a calendar event. Unset flags keep their value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := b.OpenEdit(args[0]); err != nil {
				return err
			}
			b.EditForm(editOpts.apply(cmd))
			return a.submit(cmd, b, "Updated")
		},
	}
	addEventFlags(edit, &editOpts)

	var yes bool
	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a calendar event.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := b.OpenEventDetail(args[0]); err != nil {
				return err
			}
			m := b.RequestDelete()
			if !yes && !confirm(cmd, fmt.Sprintf("Delete %q? [y/N] ", m.Event.Title)) {
				b.CancelDelete()
				fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
				return nil
			}
			if err := b.ConfirmDelete(cmd.Context()); err != nil {
				NewPrinter(cmd.ErrOrStderr(), a.cfg.Location).Error(b.Modal().Error)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation.")

	topLevel.AddCommand(create, edit, del)
}

// submit saves the open form and prints the result. On failure the dialog's
// inline error goes to stderr.
func (a *app) submit(cmd *cobra.Command, b *board.Board, verb string) error {
	evt, err := b.Submit(cmd.Context())
	if err != nil {
		if msg := b.Modal().Error; msg != "" {
			NewPrinter(cmd.ErrOrStderr(), a.cfg.Location).Error(msg)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s.\n", verb, evt.ID)
	post, ok := b.AttachedPost(*evt)
	pr := NewPrinter(cmd.OutOrStdout(), a.cfg.Location)
	if ok {
		pr.EventDetail(*evt, &post)
	} else {
		pr.EventDetail(*evt, nil)
	}
	return nil
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
