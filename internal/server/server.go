// Package server exposes the photo record store over HTTP to the mobile
// clients.
package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/emberfit/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))

	s.router.Get("/api/v1/healthz", s.handleHealthz)

	// Photos are private; every route requires the API key.
	s.router.Route("/api/v1/photos", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleSavePhoto)
		r.Get("/", s.handleListPhotos)
		r.Get("/{id}", s.handleGetPhoto)
	})
}
