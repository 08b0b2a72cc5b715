package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/backoffice/internal/apperror"
	"github.com/keyxmakerx/backoffice/internal/board"
)

func addViews(topLevel *cobra.Command, a *app) {
	var offset int

	month := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show a month of events and scheduled posts.",
		Example: `
calctl month
calctl month 2026-02 --type WEBINAR
calctl month --offset -1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ref *board.Date
			if len(args) == 1 {
				t, err := time.Parse("2006-01", args[0])
				if err != nil {
					return fmt.Errorf("month must look like 2026-02: %w", err)
				}
				d := board.NewDate(t.Year(), t.Month(), 1)
				ref = &d
			}
			return a.showView(cmd, board.ModeMonth, ref, offset)
		},
	}
	month.Flags().IntVar(&offset, "offset", 0, "Move this many months forward (negative for back).")

	var weekOffset int
	week := &cobra.Command{
		Use:   "week [YYYY-MM-DD]",
		Short: "Show the Sunday-to-Saturday week containing a date.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ref *board.Date
			if len(args) == 1 {
				d, err := board.ParseDate(args[0])
				if err != nil {
					return err
				}
				ref = &d
			}
			return a.showView(cmd, board.ModeWeek, ref, weekOffset)
		},
	}
	week.Flags().IntVar(&weekOffset, "offset", 0, "Move this many weeks forward (negative for back).")

	list := &cobra.Command{
		Use:   "list",
		Short: "List every event in date order, then standalone posts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.showView(cmd, board.ModeList, nil, 0)
		},
	}

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show one event or social post.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			pr := NewPrinter(cmd.OutOrStdout(), a.cfg.Location)
			if m, err := b.OpenEventDetail(args[0]); err == nil {
				if p, ok := b.AttachedPost(*m.Event); ok {
					pr.EventDetail(*m.Event, &p)
				} else {
					pr.EventDetail(*m.Event, nil)
				}
				return nil
			}
			m, err := b.OpenPostDetail(args[0])
			if err != nil {
				return apperror.NewNotFound(fmt.Sprintf("nothing with id %s on the calendar", args[0]))
			}
			pr.PostDetail(*m.Post)
			return nil
		},
	}

	topLevel.AddCommand(month, week, list, show)
}

// showView loads the board, moves it to ref (today when nil) and offset
// pages, and prints the page.
func (a *app) showView(cmd *cobra.Command, mode board.ViewMode, ref *board.Date, offset int) error {
	b, err := a.openBoard(cmd.Context())
	if err != nil {
		return err
	}
	b.SetMode(mode)
	if ref != nil {
		b.JumpTo(*ref)
	}
	for ; offset > 0; offset-- {
		b.Next()
	}
	for ; offset < 0; offset++ {
		b.Previous()
	}
	NewPrinter(cmd.OutOrStdout(), a.cfg.Location).View(b.Render())
	return nil
}
