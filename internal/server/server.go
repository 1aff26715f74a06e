// Package server defines the application container that composes the app's
// main dependencies (config, logger, store) and owns the http.Server
// lifecycle, including graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitlog/exercise-tracker/internal/config"
	"github.com/fitlog/exercise-tracker/internal/store"
	"github.com/fitlog/exercise-tracker/internal/store/memory"
	"github.com/fitlog/exercise-tracker/internal/store/postgres"
)

// Server is the application container that holds shared resources. It is
// not the HTTP server itself; it wraps one once SetupHTTPServer runs.
type Server struct {
	Config *config.Config
	Logger *zerolog.Logger
	Store  store.Store

	httpServer *http.Server
}

// New constructs a Server and initializes the store selected by config.
// It does not start the HTTP server; that is SetupHTTPServer + Start.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Server, error) {
	st, err := newStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return &Server{
		Config: cfg,
		Logger: logger,
		Store:  st,
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		st, err := postgres.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info().Msg("connected to the database")
		return st, nil
	case config.DriverMemory:
		logger.Warn().Msg("using in-memory store; state is lost on restart")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// SetupHTTPServer configures the internal net/http server with the given
// router/middleware stack.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops or errors.
// SetupHTTPServer must be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server (finishing inflight requests
// until ctx expires) and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if err := s.Store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}

	return nil
}
