// Package server owns HTTP server initialization and lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/matiasleandrokruk/chatrelay/internal/api"
	"github.com/matiasleandrokruk/chatrelay/internal/infra/config"
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns default HTTP server configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// FromAppConfig converts the loaded server section, whose timeouts are
// plain seconds, into a Config with durations.
func FromAppConfig(sc config.ServerConfig) Config {
	return Config{
		Host:         sc.Host,
		Port:         sc.Port,
		ReadTimeout:  time.Duration(sc.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(sc.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(sc.IdleTimeout) * time.Second,
	}
}

// Server wraps the HTTP server.
type Server struct {
	config Config
	http   *http.Server
	log    *slog.Logger
}

// NewServer builds the router from cfg and wraps it in an HTTP server.
// It fails when the provider wiring is unusable, e.g. the configured
// default provider has no API key.
func NewServer(cfg *config.Config, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}

	router, err := api.NewRouter(cfg, log)
	if err != nil {
		return nil, err
	}

	serverCfg := FromAppConfig(cfg.Server)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", serverCfg.Host, serverCfg.Port),
		Handler:      router,
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		IdleTimeout:  serverCfg.IdleTimeout,
	}

	return &Server{
		config: serverCfg,
		http:   httpServer,
		log:    log,
	}, nil
}

// Start runs the HTTP server and blocks until it stops. A graceful
// shutdown is not an error.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("starting HTTP server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight
// requests up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down server")
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("server shutdown complete")
	return nil
}
