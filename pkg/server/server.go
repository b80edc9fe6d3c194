package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Config holds server configuration.
type Config struct {
	// Address is the server listen address (e.g. ":8080")
	Address string

	// Timeouts. WriteTimeout stays unset: the watch endpoint keeps
	// streaming connections open indefinitely.
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration

	MaxHeaderBytes int
}

// DefaultConfig returns a production-ready server configuration.
func DefaultConfig(port int) *Config {
	return &Config{
		Address:           fmt.Sprintf(":%d", port),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}
}

// Server exposes the model endpoints over HTTP with graceful
// context-driven shutdown.
type Server struct {
	httpServer *http.Server
	router     chi.Router
}

func New(config *Config) *Server {
	if config == nil {
		config = DefaultConfig(8080)
	}
	router := chi.NewRouter()
	return &Server{
		httpServer: &http.Server{
			Addr:              config.Address,
			Handler:           router,
			ReadHeaderTimeout: config.ReadHeaderTimeout,
			IdleTimeout:       config.IdleTimeout,
			MaxHeaderBytes:    config.MaxHeaderBytes,
		},
		router: router,
	}
}

// Handle mounts a handler on the router.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.router.Handle(pattern, h)
}

// ListenAndServeContext serves until the context is cancelled, then
// shuts down gracefully within the given timeout.
func (s *Server) ListenAndServeContext(ctx context.Context, shutdownTimeout time.Duration) error {
	serverErr := make(chan error, 1)
	go func() {
		// a graceful shutdown surfaces as http.ErrServerClosed,
		// handled by the select below
		serverErr <- s.httpServer.ListenAndServe()
	}()

	var err error
	select {
	case <-ctx.Done():
		log.Infow("shutting down server", "addr", s.httpServer.Addr)
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = s.httpServer.Shutdown(sctx)
	case err = <-serverErr:
	}
	return err
}
