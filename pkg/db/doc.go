// Package db provides database connection and migration utilities.
//
// Three dialects are supported, each backed by a database/sql driver:
//
//   - postgres: github.com/lib/pq
//   - pgx: github.com/jackc/pgx/v5/stdlib
//   - sqlite: modernc.org/sqlite (pure Go, used for local development and tests)
//
// # Connection
//
//	conn, err := db.Open(ctx, db.DialectPostgres, os.Getenv("DATABASE_URL"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gormDB, err := db.Gorm(conn, false) // postgres dialects only
//
// # Migrations
//
// Migrations are embedded per dialect under migrations/ and applied with
// golang-migrate. The version table is tdd101_schema_migrations.
//
//	err := db.Migrate(ctx, db.DialectSQLite, "file:people.db")
package db
