package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/keyxmakerx/backoffice/internal/icalfeed"
)

func addExport(topLevel *cobra.Command, a *app) {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole calendar as an iCalendar (.ics) file.",
		Long: `Write the whole calendar as an iCalendar (.ics) file. Filters are not
applied. Posts attached to an event are folded into it; other scheduled
posts become their own entries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.openBoard(cmd.Context())
			if err != nil {
				return err
			}

			var (
				w    io.Writer = cmd.OutOrStdout()
				file *os.File
			)
			if out != "" && out != "-" {
				path, err := homedir.Expand(out)
				if err != nil {
					return err
				}
				if file, err = os.Create(path); err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				defer file.Close()
				w = file
			}

			opts := icalfeed.Options{Location: a.cfg.Location, Now: a.now}
			if err := icalfeed.Write(w, b.Events(), b.Posts(), opts); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}
			if file != nil {
				if err := file.Sync(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d events to %s.\n", len(b.Events()), file.Name())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout).")
	topLevel.AddCommand(cmd)
}
