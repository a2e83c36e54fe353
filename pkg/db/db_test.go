package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect(t *testing.T) {
	t.Run("parses names case-insensitively", func(t *testing.T) {
		for name, want := range map[string]Dialect{
			"postgres": DialectPostgres,
			"PGX":      DialectPGX,
			"SQLite":   DialectSQLite,
		} {
			got, err := DialectString(name)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		_, err := DialectString("mysql")
		assert.Error(t, err)
	})

	t.Run("maps to driver names", func(t *testing.T) {
		assert.Equal(t, "postgres", DialectPostgres.DriverName())
		assert.Equal(t, "pgx", DialectPGX.DriverName())
		assert.Equal(t, "sqlite", DialectSQLite.DriverName())
	})

	t.Run("round trips through text", func(t *testing.T) {
		text, err := DialectPGX.MarshalText()
		require.NoError(t, err)

		var d Dialect
		require.NoError(t, d.UnmarshalText(text))
		assert.Equal(t, DialectPGX, d)
	})
}

func TestOpenRejectsUnknownDialect(t *testing.T) {
	_, err := Open(context.Background(), Dialect(42), "whatever")
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestConnectRequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Connect(context.Background(), Config{Dialect: DialectSQLite})

	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestMigrations(t *testing.T) {
	ctx := context.Background()
	url := "file:" + filepath.Join(t.TempDir(), "migrate.db")

	status, err := Status(ctx, DialectSQLite, url)
	require.NoError(t, err)
	assert.False(t, status.Applied)

	require.NoError(t, Migrate(ctx, DialectSQLite, url))
	// running again is a no-op
	require.NoError(t, Migrate(ctx, DialectSQLite, url))

	status, err = Status(ctx, DialectSQLite, url)
	require.NoError(t, err)
	assert.True(t, status.Applied)
	assert.False(t, status.Dirty)
	assert.Equal(t, uint(2), status.Version)

	conn, err := Open(ctx, DialectSQLite, url)
	require.NoError(t, err)
	defer conn.Close()
	assert.True(t, tableExists(t, conn, "people"))
	assert.True(t, tableExists(t, conn, "audit_messages"))

	require.NoError(t, Rollback(ctx, DialectSQLite, url, 1))
	status, err = Status(ctx, DialectSQLite, url)
	require.NoError(t, err)
	assert.Equal(t, uint(1), status.Version)
	assert.False(t, tableExists(t, conn, "audit_messages"))
}

func TestRollbackRejectsNonPositiveSteps(t *testing.T) {
	err := Rollback(context.Background(), DialectSQLite, "file::memory:", 0)
	assert.ErrorContains(t, err, "must be positive")
}

func TestGormRejectsSQLite(t *testing.T) {
	conn, err := Open(context.Background(), DialectSQLite, "file:"+filepath.Join(t.TempDir(), "gorm.db"))
	require.NoError(t, err)
	defer conn.Close()

	_, err = Gorm(conn, false)
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
}

func tableExists(t *testing.T, conn *sqlx.DB, name string) bool {
	t.Helper()
	var count int
	require.NoError(t, conn.Get(&count, `SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name))
	return count == 1
}
