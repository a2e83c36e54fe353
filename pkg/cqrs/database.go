package cqrs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrNoConnection is returned when a request runs before Connect
	ErrNoConnection = errors.New("no connection provided")
	// ErrNoRows is returned by single-row helpers when nothing matched
	ErrNoRows = errors.New("no rows in result set")
)

// Database is embedded by requests that talk to the database. SQL passed to
// its helpers uses ? bindvars (or :name for the *Named variants) and is
// rebound for the connection's driver.
type Database struct {
	conn *sqlx.DB
}

// Connect implements DatabaseConsumer
func (d *Database) Connect(conn *sqlx.DB) {
	d.conn = conn
}

// Connection returns the connection handed over by the executor.
func (d *Database) Connection() (*sqlx.DB, error) {
	if d.conn == nil {
		return nil, ErrNoConnection
	}
	return d.conn, nil
}

// Exec runs a statement and returns the number of affected rows.
func (d *Database) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	conn, err := d.Connection()
	if err != nil {
		return 0, err
	}

	res, err := conn.ExecContext(ctx, conn.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ExecNamed is Exec with :name parameters bound from arg.
func (d *Database) ExecNamed(ctx context.Context, query string, arg any) (int64, error) {
	conn, err := d.Connection()
	if err != nil {
		return 0, err
	}

	bound, args, err := conn.BindNamed(query, arg)
	if err != nil {
		return 0, err
	}
	return d.Exec(ctx, bound, args...)
}

// ExecScalar runs a statement and scans the first column of its first row
// into dest, e.g. the id from INSERT ... RETURNING id.
func (d *Database) ExecScalar(ctx context.Context, dest any, query string, args ...any) error {
	conn, err := d.Connection()
	if err != nil {
		return err
	}

	err = conn.QueryRowxContext(ctx, conn.Rebind(query), args...).Scan(dest)
	return noRows(err)
}

// ExecScalarNamed is ExecScalar with :name parameters bound from arg.
func (d *Database) ExecScalarNamed(ctx context.Context, dest any, query string, arg any) error {
	conn, err := d.Connection()
	if err != nil {
		return err
	}

	bound, args, err := conn.BindNamed(query, arg)
	if err != nil {
		return err
	}
	return noRows(conn.QueryRowxContext(ctx, bound, args...).Scan(dest))
}

// SelectFirst scans the first row of a query into dest.
func (d *Database) SelectFirst(ctx context.Context, dest any, query string, args ...any) error {
	conn, err := d.Connection()
	if err != nil {
		return err
	}

	return noRows(conn.GetContext(ctx, dest, conn.Rebind(query), args...))
}

// SelectMany scans every row of a query into the slice dest points at.
func (d *Database) SelectMany(ctx context.Context, dest any, query string, args ...any) error {
	conn, err := d.Connection()
	if err != nil {
		return err
	}

	return conn.SelectContext(ctx, dest, conn.Rebind(query), args...)
}

func noRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNoRows, err)
	}
	return err
}
