package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var dialects = map[string]string{
	"sqlite":   "sqlite3",
	"pgx":      "postgres",
	"postgres": "postgres",
}

// goose keeps its dialect and base FS in package globals.
var gooseMu sync.Mutex

func dialect(driver string) string {
	if d, ok := dialects[driver]; ok {
		return d
	}
	return driver
}

func setupGoose(driver string) error {
	if err := goose.SetDialect(dialect(driver)); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	dir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations directory: %w", err)
	}
	goose.SetBaseFS(dir)
	goose.SetLogger(goose.NopLogger())
	return nil
}

// Migrate applies every pending migration.
func Migrate(db *sql.DB, driver string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setupGoose(driver); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	slog.Info("migrations completed", "version", version)
	return nil
}

// Rollback reverts the most recent migration.
func Rollback(db *sql.DB, driver string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setupGoose(driver); err != nil {
		return err
	}
	if err := goose.Down(db, "."); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	slog.Info("rolled back one migration")
	return nil
}
