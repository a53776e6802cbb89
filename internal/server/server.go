// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns.
//
// It owns the lifecycle of:
//   - configuration
//   - logger
//   - database pool
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/devi/internal/config"
	"github.com/deppfellow/devi/internal/database"
)

// ErrHTTPServerNotInitialized is returned by Start before SetupHTTPServer.
var ErrHTTPServerNotInitialized = errors.New("HTTP server not initialized")

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. It holds:
//   - the config
//   - the logger
//   - the database pool
//   - an internal *http.Server used to listen and serve requests
type Server struct {
	// Config holds all environment/config values for the app.
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// DB holds the PostgreSQL pool wrapper.
	DB *database.Database

	// httpServer is configured in SetupHTTPServer and started in Start.
	httpServer *http.Server
}

// New constructs a Server and opens the database pool.
//
// It does NOT start the HTTP server. That is done in SetupHTTPServer + Start.
func New(cfg *config.Config, logger *zerolog.Logger) (*Server, error) {
	db, err := database.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Server{
		Config: cfg,
		Logger: logger,
		DB:     db,
	}, nil
}

// SetupHTTPServer configures the internal net/http server.
//
// Config stores timeouts as seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server and blocks until it stops.
//
// It requires SetupHTTPServer to be called first. A clean shutdown returns nil.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return ErrHTTPServerNotInitialized
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for inflight ones until ctx
// expires, then closes the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}
