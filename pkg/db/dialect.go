package db

//go:generate go tool enumer -type Dialect -trimprefix Dialect -transform lower -text -output dialect_enumer.go

// Dialect identifies a database/sql driver and the SQL flavour it speaks.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectPGX
	DialectSQLite
)

// DriverName returns the database/sql driver name registered for the dialect
func (d Dialect) DriverName() string {
	switch d {
	case DialectPGX:
		return "pgx"
	case DialectSQLite:
		return "sqlite"
	default:
		return "postgres"
	}
}

// IsPostgres reports whether the dialect talks to PostgreSQL
func (d Dialect) IsPostgres() bool {
	return d == DialectPostgres || d == DialectPGX
}

// migrationsDir is the embedded directory holding this dialect's migrations.
func (d Dialect) migrationsDir() string {
	if d.IsPostgres() {
		return "migrations/postgres"
	}
	return "migrations/sqlite"
}
