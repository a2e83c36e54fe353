package cqrs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/metrics"
)

// Option configures an executor.
type Option func(*executor)

// WithLogger logs every execution at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(e *executor) {
		e.logger = logger
	}
}

type executor struct {
	kind    string
	connect ConnectionFactory
	logger  *zap.Logger
}

func newExecutor(kind string, connect ConnectionFactory, opts []Option) executor {
	e := executor{
		kind:    kind,
		connect: connect,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e executor) run(ctx context.Context, request Request) error {
	name := requestName(request)
	start := time.Now()

	err := e.execute(ctx, request)

	elapsed := time.Since(start)
	metrics.CQRSExecutionSeconds.WithLabelValues(e.kind, name, outcome(err)).Observe(elapsed.Seconds())
	e.logger.Debug("executed request",
		zap.String("kind", e.kind),
		zap.String("request", name),
		zap.Duration("duration", elapsed),
		zap.Error(err),
	)
	return err
}

// execute connects, validates and executes, in that order.
func (e executor) execute(ctx context.Context, request Request) error {
	if consumer, ok := request.(DatabaseConsumer); ok {
		if e.connect == nil {
			return ErrNoConnection
		}
		conn, err := e.connect(ctx)
		if err != nil {
			return fmt.Errorf("failed to obtain connection: %w", err)
		}
		consumer.Connect(conn)
	}

	if err := request.Validate(); err != nil {
		return err
	}
	return request.Execute(ctx)
}

func requestName(request Request) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", request), "*")
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid"
	default:
		return "error"
	}
}

// DBCommandExecutor runs commands against connections from a factory.
type DBCommandExecutor struct {
	executor
}

var _ CommandExecutor = (*DBCommandExecutor)(nil)

// NewCommandExecutor creates a command executor
func NewCommandExecutor(connect ConnectionFactory, opts ...Option) *DBCommandExecutor {
	return &DBCommandExecutor{executor: newExecutor("command", connect, opts)}
}

// Execute implements CommandExecutor
func (e *DBCommandExecutor) Execute(ctx context.Context, command Command) error {
	return e.run(ctx, command)
}

// DBQueryExecutor runs queries against connections from a factory.
type DBQueryExecutor struct {
	executor
}

var _ QueryExecutor = (*DBQueryExecutor)(nil)

// NewQueryExecutor creates a query executor
func NewQueryExecutor(connect ConnectionFactory, opts ...Option) *DBQueryExecutor {
	return &DBQueryExecutor{executor: newExecutor("query", connect, opts)}
}

// Execute implements QueryExecutor
func (e *DBQueryExecutor) Execute(ctx context.Context, query Query) error {
	return e.run(ctx, query)
}
