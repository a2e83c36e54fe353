package main

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/audit"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/config"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/cqrs"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/db"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/endpoints"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store/gorm"
	sqlxstore "github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store/sqlx"
)

const shutdownTimeout = 10 * time.Second

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the tdd101 application server",
	Long: `Run the tdd101 application server.

The database is taken from database_url and database_dialect. By default,
database migrations are run on startup. Use --no-migrate to skip.

The server stops gracefully on SIGINT or SIGTERM. Changes to log_level in
the config file are applied without a restart.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			exitWithError("Unable to start server", err)
		}

		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetString("port")
		}
		if cmd.Flags().Changed("bind-address") {
			cfg.BindAddress, _ = cmd.Flags().GetString("bind-address")
		}

		logger, level, err := newLogger(cfg)
		if err != nil {
			exitWithError("Unable to start server", err)
		}
		defer func() { _ = logger.Sync() }()

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if err := runServer(cmd.Context(), cfg, !noMigrate, logger, level); err != nil {
			logger.Error("server failed", zap.Error(err))
			exitWithError("Server failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", "", "server listen port (overrides port)")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address (overrides bind_address)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

// runServer serves the API until ctx is done or the listener fails.
func runServer(ctx context.Context, cfg *config.Config, migrate bool, logger *zap.Logger, level zap.AtomicLevel) error {
	if migrate {
		logger.Info("running database migrations", zap.Stringer("dialect", cfg.DatabaseDialect))
		if err := db.Migrate(ctx, cfg.DatabaseDialect, cfg.DatabaseURL); err != nil {
			return err
		}
	}

	conn, err := db.Connect(ctx, db.Config{URL: cfg.DatabaseURL, Dialect: cfg.DatabaseDialect})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	srv, err := newServer(cfg, conn, logger)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		err := config.Watch(ctx, func(updated *config.Config) {
			applyLogLevel(updated, level, logger)
		}, func(err error) {
			logger.Warn("failed to reload configuration", zap.Error(err))
		})
		if err != nil {
			// a missing config directory only disables reloading
			logger.Info("configuration reload disabled", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newServer wires executors, stores and the auditor into a server with
// every endpoint registered.
func newServer(cfg *config.Config, conn *sqlx.DB, logger *zap.Logger) (*server.Server, error) {
	connect := func(context.Context) (*sqlx.DB, error) {
		return conn, nil
	}
	cqrsLogger := cqrs.WithLogger(logger.Named("cqrs"))

	healthStore, err := newHealthStore(cfg, conn)
	if err != nil {
		return nil, err
	}

	var auditor *audit.Auditor
	if cfg.AuditEnabled {
		auditor = audit.NewAuditor(audit.NewLogger(), audit.NewStore(conn), logger.Named("audit"))
	}

	srv := server.NewServer(
		cfg,
		cqrs.NewQueryExecutor(connect, cqrsLogger),
		cqrs.NewCommandExecutor(connect, cqrsLogger),
		healthStore,
		auditor,
		logger,
	)
	endpoints.RegisterAll(srv)
	return srv, nil
}

func newHealthStore(cfg *config.Config, conn *sqlx.DB) (store.HealthStore, error) {
	if cfg.Store == config.StoreGorm {
		gormDB, err := db.Gorm(conn, cfg.LogLevel == zapcore.DebugLevel.String())
		if err != nil {
			return nil, err
		}
		return gormstore.NewHealthStore(gormDB), nil
	}
	return sqlxstore.NewHealthStore(conn), nil
}

func applyLogLevel(cfg *config.Config, level zap.AtomicLevel, logger *zap.Logger) {
	lvl, err := cfg.Level()
	if err != nil {
		logger.Warn("ignoring invalid log_level", zap.String("log_level", cfg.LogLevel))
		return
	}
	if lvl != level.Level() {
		logger.Info("log level changed", zap.Stringer("from", level.Level()), zap.Stringer("to", lvl))
		level.SetLevel(lvl)
	}
}
