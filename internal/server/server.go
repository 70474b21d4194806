// Package server exposes the review validation workflow over an HTTP JSON
// API, mirroring the dashboard backend this tool replaces.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/guestlens/guestlens/internal/service"
)

// Server wires the review store to HTTP handlers.
type Server struct {
	store  service.ReviewStore
	router *mux.Router
}

// New creates a Server with all routes registered.
func New(store service.ReviewStore) *Server {
	s := &Server{store: store}

	r := mux.NewRouter()
	r.Use(requestLogging)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/healthcheck", s.handleHealthcheck).Methods(http.MethodGet)
	api.HandleFunc("/reviews", s.handleListReviews).Methods(http.MethodGet)
	api.HandleFunc("/reviews/{id}", s.handleGetReview).Methods(http.MethodGet)
	api.HandleFunc("/reviews/{id}/validate", s.handleValidate).Methods(http.MethodPost)
	api.HandleFunc("/metrics/overview", s.handleMetrics).Methods(http.MethodGet)

	s.router = r
	return s
}

// Router returns the configured handler for mounting or testing.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe runs the HTTP server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogging logs each request with method, path, and duration.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}
