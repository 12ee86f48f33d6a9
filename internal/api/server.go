// Package api serves the outline operations over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tsawler/pdfoutline/internal/cache"
	"github.com/tsawler/pdfoutline/internal/config"
)

// Server is the HTTP API server
type Server struct {
	router chi.Router
	docs   *cache.Cache
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server
func NewServer(docs *cache.Cache, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		docs: docs,
		log:  log,
		cfg:  cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/outline", s.handleOutline)
		r.Post("/read", s.handleRead)
		r.Post("/peek", s.handlePeek)
		r.Post("/images", s.handleImages)
		r.Post("/image", s.handleImage)
		r.Post("/info", s.handleInfo)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	hits, misses := s.docs.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"cached":       s.docs.Len(),
		"cache_hits":   hits,
		"cache_misses": misses,
	})
}
