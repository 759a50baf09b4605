// Package server provides the HTTP API for Libris.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sciencestudio/libris/internal/config"
	"github.com/sciencestudio/libris/internal/extract"
	"github.com/sciencestudio/libris/internal/index"
	"github.com/sciencestudio/libris/internal/search"
	"github.com/sciencestudio/libris/internal/store"
	"github.com/sciencestudio/libris/internal/watcher"
)

// Server is the HTTP server for the Libris API.
type Server struct {
	engine    *search.Engine
	manager   *index.Manager
	catalog   *index.Catalog
	extractor *extract.Extractor
	store     store.Store
	config    *config.Config
	watch     *watcher.Watcher // optional; nil when no directories are watched
	logger    *zap.Logger
	server    *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithWatcher attaches a directory watcher so the status endpoint can report
// the watched roots.
func WithWatcher(w *watcher.Watcher) Option {
	return func(s *Server) { s.watch = w }
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	manager *index.Manager,
	catalog *index.Catalog,
	st store.Store,
	cfg *config.Config,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		engine:    engine,
		manager:   manager,
		catalog:   catalog,
		extractor: extract.NewExtractor(),
		store:     st,
		config:    cfg,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/documents", s.handleIngestText)
	r.Post("/api/v1/documents/file", s.handleIngestFile)
	r.Get("/api/v1/documents", s.handleListDocuments)
	r.Delete("/api/v1/documents", s.handleRemoveDocument)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
