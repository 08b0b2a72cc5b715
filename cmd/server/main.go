// Package main is the entry point for the marketing calendar API server. It
// loads configuration, establishes database connections, runs migrations,
// wires together the plugins, and starts the HTTP server.
//
// A few one-shot admin flags run instead of the server:
//
//	server -issue-token "ci pipeline"   print a new API token and exit
//	server -list-tokens                 list issued tokens and exit
//	server -revoke-token <id>           revoke a token and exit
//	server -seed calendar.yaml          import a seed file and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gosuri/uitable"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/backoffice/internal/app"
	"github.com/keyxmakerx/backoffice/internal/config"
	"github.com/keyxmakerx/backoffice/internal/database"
	"github.com/keyxmakerx/backoffice/internal/seed"
)

func main() {
	issueToken := flag.String("issue-token", "", "issue an API token with this name, print it and exit")
	listTokens := flag.Bool("list-tokens", false, "list API tokens and exit")
	revokeToken := flag.String("revoke-token", "", "revoke the API token with this ID and exit")
	seedFile := flag.String("seed", "", "import events and posts from a YAML seed file and exit ("+seed.SampleName+" for the built-in one)")
	flag.Parse()

	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	// Configure structured logging based on environment.
	setupLogging(cfg)

	// --- Connect to MariaDB ---
	ctx := context.Background()
	db, err := database.NewMariaDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to MariaDB", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to MariaDB")

	if _, err := database.RunMigrations(db, cfg.MigrationsPath); err != nil {
		slog.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Connect to Redis ---
	// Redis only caches verified tokens, so an empty REDIS_URL runs without it.
	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		rdb, err = database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			slog.Error("failed to connect to Redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer rdb.Close()
		slog.Info("connected to Redis")
	} else {
		slog.Warn("REDIS_URL is empty, API token cache disabled")
	}

	// --- Create Application ---
	application := app.New(cfg, db, rdb)
	services := application.NewServices()

	// --- One-shot admin commands ---
	switch {
	case *issueToken != "":
		exitOn(runIssueToken(ctx, services, *issueToken, os.Stdout))
		return
	case *listTokens:
		exitOn(runListTokens(ctx, services, os.Stdout))
		return
	case *revokeToken != "":
		exitOn(services.Tokens.Revoke(ctx, *revokeToken))
		fmt.Printf("Revoked %s.\n", *revokeToken)
		return
	case *seedFile != "":
		exitOn(runSeed(ctx, services, *seedFile))
		return
	}

	// Register all routes (health check and API).
	application.RegisterRoutes(services)

	// --- Graceful Shutdown ---
	// Listen for interrupt/term signals to drain connections cleanly.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		// Give in-flight requests 10 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if err := application.Echo.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced shutdown", slog.Any("error", err))
		}
	}()

	// --- Start Server ---
	if err := application.Start(); err != nil {
		// Echo returns http.ErrServerClosed on graceful shutdown, which is expected.
		slog.Info("server stopped", slog.Any("reason", err))
	}
}

// runIssueToken issues a token and prints its raw value. The raw value is
// shown only once.
func runIssueToken(ctx context.Context, svc app.Services, name string, w io.Writer) error {
	res, err := svc.Tokens.Issue(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Issued token %q (id %s). Store it now, it is not shown again:\n\n%s\n", res.Token.Name, res.Token.ID, res.Raw)
	return nil
}

func runListTokens(ctx context.Context, svc app.Services, w io.Writer) error {
	list, err := svc.Tokens.List(ctx)
	if err != nil {
		return err
	}
	table := uitable.New()
	table.MaxColWidth = 40
	table.AddRow("ID", "NAME", "PREFIX", "CREATED", "LAST USED", "STATE")
	for _, tok := range list {
		lastUsed := "never"
		if tok.LastUsedAt != nil {
			lastUsed = tok.LastUsedAt.Format(time.DateTime)
		}
		state := "active"
		if tok.IsRevoked() {
			state = "revoked"
		}
		table.AddRow(tok.ID, tok.Name, tok.Prefix, tok.CreatedAt.Format(time.DateTime), lastUsed, state)
	}
	_, err = fmt.Fprintln(w, table)
	return err
}

func runSeed(ctx context.Context, svc app.Services, path string) error {
	f, err := seed.Load(path)
	if err != nil {
		return err
	}
	res, err := seed.Import(ctx, f, svc.Events, svc.Posts, slog.Default())
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d events and %d posts.\n", res.Events, res.Posts)
	return nil
}

// exitOn logs err and exits non-zero.
func exitOn(err error) {
	if err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// setupLogging configures the global slog logger. Development uses text
// format for readability, production uses JSON for log aggregation.
// LOG_LEVEL overrides the level.
func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
