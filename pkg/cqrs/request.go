package cqrs

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Request is the shape shared by commands and queries. Results are left on
// the request value by Execute.
type Request interface {
	Validator
	Execute(ctx context.Context) error
}

// Command changes state.
type Command interface {
	Request
}

// Query reads state.
type Query interface {
	Request
}

// DatabaseConsumer is implemented by requests that need a connection.
type DatabaseConsumer interface {
	Connect(conn *sqlx.DB)
}

// ConnectionFactory hands out a connection for a single request.
type ConnectionFactory func(ctx context.Context) (*sqlx.DB, error)

// CommandExecutor runs commands.
type CommandExecutor interface {
	Execute(ctx context.Context, command Command) error
}

// QueryExecutor runs queries.
type QueryExecutor interface {
	Execute(ctx context.Context, query Query) error
}
