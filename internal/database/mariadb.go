// Package database owns the MariaDB and Redis connections and the schema
// migrations. Connections are opened once at startup and handed to the
// plugins by the app package.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// Registers the "mysql" driver used for MariaDB.
	_ "github.com/go-sql-driver/mysql"

	"github.com/keyxmakerx/backoffice/internal/config"
)

const (
	connectAttempts = 10
	maxBackoff      = 30 * time.Second
	pingTimeout     = 5 * time.Second
)

// NewMariaDB opens the pool, applies the pool limits from cfg and waits for
// the server to answer a ping. MariaDB often starts after the API container,
// so pings are retried with doubling backoff until ctx is done or the
// attempts run out.
func NewMariaDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening mariadb connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := waitForPing(ctx, db.PingContext, connectAttempts, time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging mariadb: %w", err)
	}
	return db, nil
}

// waitForPing calls ping until it succeeds, attempts are exhausted or ctx
// is canceled.
func waitForPing(ctx context.Context, ping func(context.Context) error, attempts int, backoff time.Duration) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = ping(pctx)
		cancel()
		if err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		slog.Warn("database not ready, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("backoff", backoff),
			slog.Any("error", err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
	return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
}
