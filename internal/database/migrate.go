package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"

	// Reads migration files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrDirtySchema means a previous migration failed halfway. The schema must
// be repaired by hand (migrate force) before the server may start.
var ErrDirtySchema = errors.New("database schema is dirty")

// RunMigrations applies every pending migration in dir and returns the
// resulting schema version. Already-applied migrations are skipped.
func RunMigrations(db *sql.DB, dir string) (uint, error) {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return 0, fmt.Errorf("creating migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "mysql", driver)
	if err != nil {
		return 0, fmt.Errorf("creating migrator for %s: %w", dir, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("running migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("%w at version %d", ErrDirtySchema, version)
	}
	slog.Info("schema up to date", slog.Uint64("version", uint64(version)), slog.String("dir", dir))
	return version, nil
}
