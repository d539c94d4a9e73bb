// Package server exposes the bridge over HTTP: the same surface the
// source deployment offered its notification form, plus the incident
// state-change event hook.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/example/dutybridge/internal/app"
	"github.com/example/dutybridge/internal/config"
	"github.com/example/dutybridge/internal/ports/primary"
	"github.com/example/dutybridge/internal/ports/secondary"
)

// Server wires the bridge services to HTTP handlers.
type Server struct {
	policies      primary.PolicyService
	timeline      *app.TimelineSession
	notifications primary.NotificationService
	directory     secondary.Directory
	cfg           *config.Config
	logger        *zap.Logger
}

// New creates a Server over the given services.
func New(policies primary.PolicyService, timeline *app.TimelineSession, notifications primary.NotificationService, directory secondary.Directory, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		policies:      policies,
		timeline:      timeline,
		notifications: notifications,
		directory:     directory,
		cfg:           cfg,
		logger:        logger,
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogging)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)
	api.HandleFunc("/policies", s.handlePolicies).Methods(http.MethodGet)
	api.HandleFunc("/timeline", s.handleTimeline).Methods(http.MethodPost)
	api.HandleFunc("/groups/{id}/members", s.handleGroupMembers).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}", s.handleGroup).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", s.handleUser).Methods(http.MethodGet)
	api.HandleFunc("/send", s.handleSend).Methods(http.MethodPost)
	api.HandleFunc("/events/incident", s.handleIncidentEvent).Methods(http.MethodPost)

	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("http server listening", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
