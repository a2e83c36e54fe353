package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/audit"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/clock"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/config"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/cqrs"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store"
)

type Server struct {
	Config      *config.Config
	Router      *mux.Router
	Queries     cqrs.QueryExecutor
	Commands    cqrs.CommandExecutor
	HealthStore store.HealthStore
	// Auditor is nil when auditing is disabled
	Auditor *audit.Auditor
	// Auth is nil when no jwt_secret is configured
	Auth   *middleware.JWTAuthenticator
	Clock  clock.Provider
	Logger *zap.Logger
	srv    *http.Server
}

func NewServer(
	cfg *config.Config,
	queries cqrs.QueryExecutor,
	commands cqrs.CommandExecutor,
	healthStore store.HealthStore,
	auditor *audit.Auditor,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.Metrics)

	var auth *middleware.JWTAuthenticator
	if cfg.JWTSecret != "" {
		auth = middleware.NewJWTAuthenticator([]byte(cfg.JWTSecret))
	}

	s := &Server{
		Config:      cfg,
		Router:      router,
		Queries:     queries,
		Commands:    commands,
		HealthStore: healthStore,
		Auditor:     auditor,
		Auth:        auth,
		Clock:       clock.Default,
		Logger:      logger,
	}
	s.srv = &http.Server{
		Handler:      s.Handler(),
		Addr:         cfg.Address(),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	return s
}

// Handler is the router wrapped in access logging and panic recovery.
func (s *Server) Handler() http.Handler {
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(s.Logger)),
		handlers.PrintRecoveryStack(true),
	)
	return recovery(handlers.LoggingHandler(os.Stdout, s.Router))
}

// Protect requires a valid bearer token when auth is configured.
func (s *Server) Protect(h http.Handler) http.Handler {
	if s.Auth == nil {
		return h
	}
	return s.Auth.Middleware(h)
}

// Addr is the address the server listens on
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.Logger.Info("listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
