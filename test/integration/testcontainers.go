package integration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/audit"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/config"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/cqrs"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/db"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/endpoints"
	gormstore "github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store/gorm"
)

const (
	serverPort = "18080"
	jwtSecret  = "integration-secret"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	// Conn uses the pgx driver, Gorm shares its pool
	Conn          *sqlx.DB
	Gorm          *gorm.DB
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string
	HTTPClient    *http.Client
	Cancel        context.CancelFunc
	ServerProcess *exec.Cmd
	InlineServer  *server.Server
}

// NewTestContext starts PostgreSQL in a container, migrates it and starts the
// server against it.
// Modes:
//   - Inline mode (default): the server runs in-process
//   - Binary mode: set TDD101_BINARY to the path of a tdd101ctl binary
func NewTestContext(ctx context.Context) (*TestContext, error) {
	binaryPath := os.Getenv("TDD101_BINARY")
	if binaryPath != "" {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("TDD101_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("tdd101_test"),
		tcpostgres.WithUsername("tdd101"),
		tcpostgres.WithPassword("tdd101"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := db.Migrate(ctx, db.DialectPostgres, connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	conn, err := db.Open(ctx, db.DialectPGX, connStr)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	gormDB, err := db.Gorm(conn, false)
	if err != nil {
		_ = conn.Close()
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	tc := &TestContext{
		Conn:        conn,
		Gorm:        gormDB,
		Container:   pgContainer,
		ServerURL:   "http://127.0.0.1:" + serverPort,
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}

	if binaryPath != "" {
		tc.ServerProcess, tc.Cancel, err = startBinary(binaryPath, connStr)
	} else {
		tc.InlineServer, tc.Cancel, err = startInlineServer(conn)
	}
	if err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to start server: %w", err)
	}

	if err := waitForServer(tc.ServerURL, 30*time.Second); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}
	return tc, nil
}

// startInlineServer starts the server in-process on the shared connection
func startInlineServer(conn *sqlx.DB) (*server.Server, context.CancelFunc, error) {
	cfg := &config.Config{
		DatabaseDialect: db.DialectPGX,
		Store:           config.StoreGorm,
		BindAddress:     "127.0.0.1",
		Port:            serverPort,
		LogLevel:        "info",
		ListLimitMax:    1000,
		JWTSecret:       jwtSecret,
		AuditEnabled:    true,
	}

	gormDB, err := db.Gorm(conn, false)
	if err != nil {
		return nil, nil, err
	}

	connect := func(context.Context) (*sqlx.DB, error) {
		return conn, nil
	}
	logger := zap.NewNop()

	s := server.NewServer(
		cfg,
		cqrs.NewQueryExecutor(connect),
		cqrs.NewCommandExecutor(connect),
		gormstore.NewHealthStore(gormDB),
		audit.NewAuditor(audit.NewLogger(), audit.NewStore(conn), logger),
		logger,
	)
	endpoints.RegisterAll(s)

	go func() {
		if err := s.Start(); err != nil {
			log.Printf("inline server stopped: %v", err)
		}
	}()

	cancel := func() {
		ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = s.Shutdown(ctx)
	}
	return s, cancel, nil
}

// startBinary starts the tdd101ctl server binary
func startBinary(binaryPath, dbURL string) (*exec.Cmd, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(context.Background())

	configDir, err := os.MkdirTemp("", "tdd101-config")
	if err != nil {
		cancel()
		return nil, nil, err
	}

	// Use --no-migrate since we already ran migrations in the test setup
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", serverPort)
	cmd.Env = append(os.Environ(),
		"TDD101_CONFIG_PATH="+configDir,
		"TDD101_DATABASE_URL="+dbURL,
		"TDD101_DATABASE_DIALECT=pgx",
		"TDD101_STORE=gorm",
		"TDD101_JWT_SECRET="+jwtSecret,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		_ = os.RemoveAll(configDir)
		return nil, nil, fmt.Errorf("failed to start binary: %w", err)
	}

	return cmd, func() {
		cancel()
		_ = os.RemoveAll(configDir)
	}, nil
}

// waitForServer polls /status until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/status")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Reset empties every table and restarts the id sequences
func (tc *TestContext) Reset(ctx context.Context) error {
	_, err := tc.Conn.ExecContext(ctx, `TRUNCATE people, audit_messages RESTART IDENTITY`)
	return err
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Cancel != nil {
		tc.Cancel()
	}
	if tc.ServerProcess != nil && tc.ServerProcess.Process != nil {
		_ = tc.ServerProcess.Process.Kill()
		if err := tc.ServerProcess.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("server process exited: %v", err)
		}
	}
	if tc.Conn != nil {
		_ = tc.Conn.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}
