package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/merx/internal/app"
	"github.com/ternarybob/merx/internal/handlers"
)

// Server manages the HTTP server and routes
type Server struct {
	app      *app.App
	router   *http.ServeMux
	server   *http.Server
	shutdown chan struct{}
}

// New creates a new HTTP server with the given app
func New(application *app.App) *Server {
	s := &Server{
		app:      application,
		shutdown: make(chan struct{}),
	}

	s.router = s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", application.Config.Server.Host, application.Config.Server.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.withConditionalMiddleware(s.router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.app.Config.Server.Host, s.app.Config.Server.Port)

	s.app.Logger.Info().
		Str("address", addr).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.app.Logger.Info().Msg("Shutting down HTTP server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.app.Logger.Info().Msg("HTTP server stopped")
	return nil
}

// ShutdownRequested returns a channel closed when a shutdown request arrives
// over the API
func (s *Server) ShutdownRequested() <-chan struct{} {
	return s.shutdown
}

// ShutdownHandler triggers a graceful shutdown via the API (dev mode)
func (s *Server) ShutdownHandler(w http.ResponseWriter, r *http.Request) {
	if !handlers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	handlers.WriteSuccess(w, "Shutting down")

	select {
	case <-s.shutdown:
	default:
		close(s.shutdown)
	}
}
