package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/me/schedq/internal/config"
	"github.com/me/schedq/internal/scheduler"
	"github.com/me/schedq/internal/store"
)

// Server is the schedq REST API server. It translates HTTP verbs into
// engine calls; every scheduling decision stays inside the engine.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	engine    *scheduler.Engine
	archive   store.Store // optional; nil disables the history endpoints
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithArchive enables the /history endpoints backed by the task archive.
func WithArchive(st store.Store) Option {
	return func(s *Server) {
		s.archive = st
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, engine *scheduler.Engine, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		engine:    engine,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.handleDiscovery)
		r.Get("/health", s.handleHealth)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", s.handleSubmitTask)
			r.Post("/batch", s.handleSubmitBatch)
			r.Get("/", s.handleListTasks)
			r.Get("/{id}", s.handleGetTask)
			r.Patch("/{id}", s.handleUpdateTask)
			r.Put("/{id}/cancel", s.handleCancelTask)
			r.Delete("/{id}", s.handleDeleteTask)
		})

		r.Get("/stats", s.handleStats)

		if s.archive != nil {
			r.Get("/history", s.handleHistory)
			r.Get("/history/{id}", s.handleHistoryTask)
		}
	})
}
