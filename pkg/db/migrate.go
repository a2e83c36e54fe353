package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

// MigrationsTable records the applied migration version
const MigrationsTable = "tdd101_schema_migrations"

//go:embed migrations
var migrationsFS embed.FS

// Migrations returns the embedded migration files for dialect.
func Migrations(dialect Dialect) (fs.FS, error) {
	sub, err := fs.Sub(migrationsFS, dialect.migrationsDir())
	if err != nil {
		return nil, fmt.Errorf("failed to get embedded migrations: %w", err)
	}
	return sub, nil
}

// MigrationStatus describes the schema version of a database.
type MigrationStatus struct {
	Version uint
	Dirty   bool
	// Applied is false when no migration has ever run
	Applied bool
}

// Migrate applies all pending migrations. It opens (and closes) its own
// connection because golang-migrate closes the pool it is given.
func Migrate(ctx context.Context, dialect Dialect, url string) error {
	return withMigrate(ctx, dialect, url, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration failed: %w", err)
		}
		return nil
	})
}

// Rollback reverts the given number of migrations.
func Rollback(ctx context.Context, dialect Dialect, url string, steps int) error {
	if steps < 1 {
		return fmt.Errorf("rollback steps must be positive, got %d", steps)
	}
	return withMigrate(ctx, dialect, url, func(m *migrate.Migrate) error {
		if err := m.Steps(-steps); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		return nil
	})
}

// Status reports the current migration version.
func Status(ctx context.Context, dialect Dialect, url string) (MigrationStatus, error) {
	var status MigrationStatus
	err := withMigrate(ctx, dialect, url, func(m *migrate.Migrate) error {
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		if err != nil {
			return err
		}
		status = MigrationStatus{Version: version, Dirty: dirty, Applied: true}
		return nil
	})
	return status, err
}

func withMigrate(ctx context.Context, dialect Dialect, url string, fn func(*migrate.Migrate) error) error {
	conn, err := Open(ctx, dialect, url)
	if err != nil {
		return err
	}

	m, err := newMigrate(conn, dialect)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	return fn(m)
}

func newMigrate(conn *sqlx.DB, dialect Dialect) (*migrate.Migrate, error) {
	migrations, err := Migrations(dialect)
	if err != nil {
		return nil, err
	}
	source, err := iofs.New(migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs driver: %w", err)
	}

	var driver database.Driver
	if dialect.IsPostgres() {
		driver, err = migratepg.WithInstance(conn.DB, &migratepg.Config{MigrationsTable: MigrationsTable})
	} else {
		driver, err = migratesqlite.WithInstance(conn.DB, &migratesqlite.Config{MigrationsTable: MigrationsTable})
	}
	if err != nil {
		_ = source.Close()
		return nil, err
	}

	return migrate.NewWithInstance("iofs", source, dialect.String(), driver)
}
