package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/avlviz/pkg/cache"
	"github.com/matzehuels/avlviz/pkg/pipeline"
	"github.com/matzehuels/avlviz/pkg/store"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = ":8080"

	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes = 1 << 20

	// MaxKeysPerRequest bounds how many keys one request may insert.
	MaxKeysPerRequest = 10_000

	shutdownTimeout = 10 * time.Second
)

// Server hosts trees and serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults pipeline.Options

	mu    sync.RWMutex
	trees map[string]*hostedTree

	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithRunner sets the pipeline runner used for rendering. The default runner
// caches artifacts in memory.
func WithRunner(r *pipeline.Runner) Option { return func(s *Server) { s.runner = r } }

// WithStore persists every tree as a snapshot.
func WithStore(st store.Store) Option { return func(s *Server) { s.store = st } }

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithDefaults sets the layout and render options requests start from.
// Keys and Formats are ignored.
func WithDefaults(o pipeline.Options) Option { return func(s *Server) { s.defaults = o } }

// New creates a server.
func New(opts ...Option) *Server {
	s := &Server{trees: make(map[string]*hostedTree)}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(cache.NewMemoryCache(10*time.Minute), nil, s.logger)
	}
	s.defaults.Keys = nil
	s.defaults.Formats = nil
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/trees", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/keys", s.handleInsert)
			r.Get("/render/{format}", s.handleRender)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the runner and store.
func (s *Server) Close() error {
	err := s.runner.Close()
	if s.store != nil {
		err = stderrors.Join(err, s.store.Close())
	}
	return err
}
