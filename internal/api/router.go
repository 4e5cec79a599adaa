package api

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/meur/logroll/internal/cache"
	"github.com/meur/logroll/internal/models"
	"github.com/meur/logroll/internal/roll"
)

// ProgressClient fetches a player's collected item names. force bypasses
// any still-valid per-player cache.
type ProgressClient interface {
	FetchCollected(ctx context.Context, rsn string, force bool) (map[string]bool, error)
}

// Server holds the HTTP server dependencies
type Server struct {
	store     *cache.Store
	source    cache.CatalogFetcher
	players   ProgressClient
	roller    *roll.Roller
	catalog   *catalogHolder
	logger    *slog.Logger
	router    chi.Router
	templates *template.Template
}

// New creates a new API server
func New(store *cache.Store, source cache.CatalogFetcher, players ProgressClient, roller *roll.Roller, logger *slog.Logger) *Server {
	s := &Server{
		store:     store,
		source:    source,
		players:   players,
		roller:    roller,
		catalog:   &catalogHolder{},
		logger:    logger,
		router:    chi.NewRouter(),
		templates: template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Catalog
		r.Get("/catalog", s.handleGetCatalog)
		r.Post("/catalog/refresh", s.handleRefreshCatalog)

		// Player progress
		r.Get("/players/{rsn}", s.handleGetPlayer)

		// Rolls
		r.Post("/roll", s.handleRoll)
	})

	// Web UI
	s.router.Get("/", s.handleIndex)
	s.router.Handle("/assets/*", http.FileServer(http.FS(assetsFS)))

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// ensureCatalog returns the in-memory catalog, loading or scraping it on
// first use.
func (s *Server) ensureCatalog(ctx context.Context) (*models.Catalog, error) {
	if c := s.catalog.Get(); c != nil {
		return c, nil
	}
	c, err := cache.EnsureCatalog(ctx, s.store, s.source)
	if err != nil {
		return nil, err
	}
	s.catalog.Set(c)
	return c, nil
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
