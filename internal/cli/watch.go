package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/keyxmakerx/backoffice/internal/board"
)

// watcher reloads a board and reprints its current page.
type watcher struct {
	b      *board.Board
	out    io.Writer
	pr     *Printer
	logger *slog.Logger
	now    func() time.Time
}

func (w *watcher) refresh(ctx context.Context) {
	if err := w.b.Load(ctx); err != nil {
		// The view keeps the last good data and shows the load error.
		w.logger.Debug("watch refresh failed", slog.Any("error", err))
	}
	fmt.Fprintf(w.out, "\n--- refreshed %s ---\n", w.now().Format("15:04:05"))
	w.pr.View(w.b.Render())
}

func addWatch(topLevel *cobra.Command, a *app) {
	var (
		every string
		view  string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint a view on a schedule until interrupted.",
		Example: `
calctl watch --every "@every 5m" --view week
calctl watch --every "0 9 * * 1-5"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := board.ParseViewMode(view)
			if err != nil {
				return err
			}
			if _, err := cron.ParseStandard(every); err != nil {
				return fmt.Errorf("invalid schedule %q: %w", every, err)
			}

			b, err := a.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			b.SetMode(mode)
			pr := NewPrinter(cmd.OutOrStdout(), a.cfg.Location)
			pr.View(b.Render())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := &watcher{
				b:      b,
				out:    cmd.OutOrStdout(),
				pr:     pr,
				logger: a.logger,
				now:    func() time.Time { return a.now().In(a.cfg.Location) },
			}
			c := cron.New(cron.WithLocation(a.cfg.Location))
			if _, err := c.AddFunc(every, func() { w.refresh(ctx) }); err != nil {
				return err
			}
			c.Start()
			<-ctx.Done()
			<-c.Stop().Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&every, "every", "@every 1m", "Cron schedule or @every interval.")
	cmd.Flags().StringVar(&view, "view", "month", "View to print: month, week or list.")
	topLevel.AddCommand(cmd)
}
