package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/keyxmakerx/backoffice/internal/apiclient"
	"github.com/keyxmakerx/backoffice/internal/apperror"
	"github.com/keyxmakerx/backoffice/internal/board"
	"github.com/keyxmakerx/backoffice/internal/seed"
)

// Build information, set with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// app is the state shared by the commands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *settings
	logger     *slog.Logger
	now        func() time.Time
}

// New returns the calctl root command.
func New() *cobra.Command {
	return newRootCommand(&app{now: time.Now})
}

func newRootCommand(a *app) *cobra.Command {
	a.v = viper.New()
	cmd := &cobra.Command{
		Use:           "calctl",
		Short:         "Marketing calendar on the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadSettings(a.v, a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	addGlobalFlags(cmd, a.v, &a.configFile)

	addViews(cmd, a)
	addEvents(cmd, a)
	addAuth(cmd, a)
	addExport(cmd, a)
	addWatch(cmd, a)
	addVersion(cmd)
	return cmd
}

// backend picks the seed store or the API client.
func (a *app) backend(ctx context.Context) (board.Backend, board.TokenSource, error) {
	if a.cfg.Seed != "" {
		f, err := seed.Load(a.cfg.Seed)
		if err != nil {
			return nil, nil, err
		}
		store, err := seed.NewStore(ctx, f)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug("using seed data", slog.String("seed", a.cfg.Seed))
		return store, board.StaticToken(""), nil
	}

	client, err := apiclient.New(a.cfg.Server, apiclient.WithUserAgent("calctl/"+Version))
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug("using server", slog.String("server", a.cfg.Server))
	return client, a.tokens(), nil
}

// tokens prefers an explicit token (flag, config or CALCTL_TOKEN) over the
// token jar.
func (a *app) tokens() board.TokenSource {
	if a.cfg.Token != "" {
		return board.StaticToken(a.cfg.Token)
	}
	return OpenTokenJar(a.cfg.TokenDir).For(a.cfg.Server)
}

// openBoard builds a board with the configured filter and loads it.
func (a *app) openBoard(ctx context.Context) (*board.Board, error) {
	filter, err := board.ParseFilter(a.cfg.Type, a.cfg.Status)
	if err != nil {
		return nil, err
	}
	backend, tokens, err := a.backend(ctx)
	if err != nil {
		return nil, err
	}
	b := board.New(backend, tokens,
		board.WithLogger(a.logger),
		board.WithClock(a.now),
		board.WithLocation(a.cfg.Location),
	)
	b.SetFilter(filter)
	if err := b.Load(ctx); err != nil {
		return nil, explainLoadError(err)
	}
	return b, nil
}

// explainLoadError surfaces an authentication problem behind the generic
// load failure, since the user can fix it.
func explainLoadError(err error) error {
	var inner *apperror.AppError
	if errors.As(errors.Unwrap(err), &inner) && inner.Code == http.StatusUnauthorized {
		return inner
	}
	return err
}
