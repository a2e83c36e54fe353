package db

import (
	"context"
	"errors"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// ErrUnsupportedDialect is returned when an operation can't run on a dialect
var ErrUnsupportedDialect = errors.New("unsupported database dialect")

func init() {
	sqlx.BindDriver(DialectSQLite.DriverName(), sqlx.QUESTION)
}

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL (defaults to DATABASE_URL env var)
	URL string
	// Dialect selects the database/sql driver
	Dialect Dialect
	// Debug enables SQL statement logging for gorm connections
	Debug bool
}

// Connect establishes a database connection.
// If no URL is provided, it reads from DATABASE_URL environment variable.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	dbURL := cfg.URL
	if dbURL == "" {
		dbURL = URL()
	}
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return Open(ctx, cfg.Dialect, dbURL)
}

// Open connects to url using the driver for dialect and pings it.
func Open(ctx context.Context, dialect Dialect, url string) (*sqlx.DB, error) {
	if !dialect.IsADialect() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, dialect)
	}

	conn, err := sqlx.ConnectContext(ctx, dialect.DriverName(), url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		// a single connection keeps writers serialised
		conn.SetMaxOpenConns(1)
	}
	return conn, nil
}

// Gorm wraps an existing postgres connection pool in a gorm.DB.
func Gorm(conn *sqlx.DB, debug bool) (*gorm.DB, error) {
	if conn.DriverName() == DialectSQLite.DriverName() {
		return nil, fmt.Errorf("%w: gorm requires a postgres dialect", ErrUnsupportedDialect)
	}

	// Default to silent logging unless debug is requested
	logMode := logger.Silent
	if debug {
		logMode = logger.Info
	}

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 conn.DB,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logMode),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}
	return gormDB, nil
}

// URL returns the database URL from environment.
// Returns empty string if DATABASE_URL is not set.
func URL() string {
	return os.Getenv("DATABASE_URL")
}
