// Package dbtest creates throwaway databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/db"
)

// SQLiteURL returns the DSN of a fresh, migrated SQLite database file inside
// the test's temp dir.
func SQLiteURL(t testing.TB) string {
	t.Helper()

	url := "file:" + filepath.Join(t.TempDir(), "tdd101.db")
	require.NoError(t, db.Migrate(context.Background(), db.DialectSQLite, url))
	return url
}

// NewSQLite opens a fresh, migrated SQLite database that is closed when the
// test ends.
func NewSQLite(t testing.TB) *sqlx.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), db.DialectSQLite, SQLiteURL(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// Factory returns a connection factory that always hands out conn.
func Factory(conn *sqlx.DB) func(context.Context) (*sqlx.DB, error) {
	return func(context.Context) (*sqlx.DB, error) {
		return conn, nil
	}
}
