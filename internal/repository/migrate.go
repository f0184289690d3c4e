package repository

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrateSchema brings the kv_entries table up to date. The migrate instance
// is not closed because that would close db as well.
func migrateSchema(db *sql.DB, driver string) error {
	var (
		target database.Driver
		err    error
	)
	switch driver {
	case DriverPostgres:
		target, err = postgres.WithInstance(db, &postgres.Config{})
	case DriverSQLite:
		target, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, _, err := m.Version()
	switch {
	case err == nil:
		log.Printf("✅ Schema at version %d", version)
	case !errors.Is(err, migrate.ErrNilVersion):
		log.Printf("⚠️  Could not read schema version: %v", err)
	}
	return nil
}
