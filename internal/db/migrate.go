package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"profile-service-go/internal/config"
)

//go:embed migrations
var migrationsFS embed.FS

// dialects maps store drivers to goose dialects and migration directories.
var dialects = map[string]string{
	config.DriverPostgres: "postgres",
	config.DriverSQLite:   "sqlite3",
}

var migrationDirs = map[string]string{
	config.DriverPostgres: "migrations/postgres",
	config.DriverSQLite:   "migrations/sqlite",
}

func setupGoose(driver string) error {
	dialect, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", driver)
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	dir, err := fs.Sub(migrationsFS, migrationDirs[driver])
	if err != nil {
		return fmt.Errorf("migrations directory: %w", err)
	}

	goose.SetBaseFS(dir)
	goose.SetLogger(goose.NopLogger())
	return nil
}

func Migrate(sqlDB *sql.DB, driver string) error {
	if err := setupGoose(driver); err != nil {
		return err
	}

	if err := goose.Up(sqlDB, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func MigrateDown(sqlDB *sql.DB, driver string) error {
	if err := setupGoose(driver); err != nil {
		return err
	}

	if err := goose.Down(sqlDB, "."); err != nil {
		return fmt.Errorf("rollback migration: %w", err)
	}
	return nil
}
