// Package server exposes the practice API over HTTP.
//
// All endpoints return a JSON envelope of the form
//
//	{"success": true, "data": ...}
//
// or, on failure,
//
//	{"success": false, "error": "..."}
//
// Read endpoints are cached through a pluggable cache backend.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bdfinst/interactive-cd/internal/share"
	"github.com/bdfinst/interactive-cd/internal/store"
	"github.com/bdfinst/interactive-cd/pkg/cache"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server hosts the practice API.
type Server struct {
	logger *log.Logger
	store  *store.Store
	shares share.Store
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	rootID string
	addr   string
}

// Options configures a Server.
type Options struct {
	Logger *log.Logger
	Store  *store.Store
	Shares share.Store   // nil disables share endpoints
	Cache  cache.Cache   // nil disables caching
	TTL    time.Duration // cache TTL for read endpoints
	RootID string        // default tree root when ?root= is absent
	Addr   string
}

// New creates a Server. Store is required; everything else has defaults.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	c := opts.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Server{
		logger: logger,
		store:  opts.Store,
		shares: opts.Shares,
		cache:  c,
		keyer:  cache.NewDefaultKeyer(),
		ttl:    opts.TTL,
		rootID: opts.RootID,
		addr:   opts.Addr,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/practices", s.handlePractices)
		r.Get("/practice-cards", s.handleCards)
		r.Get("/practice-tree", s.handleTree)
		r.Get("/practice-graph.svg", s.handleGraphSVG)

		if s.shares != nil {
			r.Post("/share", s.handleShareCreate)
			r.Get("/share/{id}", s.handleShareGet)
			r.Delete("/share/{id}", s.handleShareDelete)
		}
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Router(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// logRequests logs method, path, status, and duration for every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
