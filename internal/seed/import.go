package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

// Result summarizes an import.
type Result struct {
	Events int
	Posts  int
	// IDs maps seed IDs (events and posts) to the stored IDs.
	IDs map[string]string
}

// Import creates the file's posts and then its events through the given
// services, so seed data passes the same validation as API requests. Event
// post references are rewritten to the stored post IDs.
func Import(ctx context.Context, f *File, events calendar.EventService, posts social.PostService, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	res := &Result{IDs: make(map[string]string, len(f.Events)+len(f.Posts))}

	for _, entry := range f.Posts {
		in, err := f.PostInput(entry)
		if err != nil {
			return res, err
		}
		p, err := posts.Create(ctx, in)
		if err != nil {
			return res, fmt.Errorf("post %q: %w", entry.ID, err)
		}
		res.IDs[entry.ID] = p.ID
		res.Posts++
		logger.Debug("seeded social post", slog.String("seed_id", entry.ID), slog.String("id", p.ID))
	}

	for _, entry := range f.Events {
		in, err := f.EventInput(entry)
		if err != nil {
			return res, err
		}
		if in.SocialMediaPostID != nil {
			stored := res.IDs[*in.SocialMediaPostID]
			in.SocialMediaPostID = &stored
		}
		evt, err := events.Create(ctx, in)
		if err != nil {
			return res, fmt.Errorf("event %q: %w", entry.ID, err)
		}
		res.IDs[entry.ID] = evt.ID
		res.Events++
		logger.Debug("seeded calendar event", slog.String("seed_id", entry.ID), slog.String("id", evt.ID))
	}

	logger.Info("seed import complete", slog.Int("events", res.Events), slog.Int("posts", res.Posts))
	return res, nil
}
