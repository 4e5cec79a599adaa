package api

import (
	"net/http"
	"time"

	"github.com/meur/logroll/internal/cache"
	"github.com/meur/logroll/internal/models"
)

type catalogStats struct {
	UniqueItems int       `json:"unique_items"`
	TotalSlots  int       `json:"total_slots"`
	Categories  []string  `json:"categories"`
	ScrapedAt   time.Time `json:"scraped_at"`
}

func statsFor(c *models.Catalog) catalogStats {
	return catalogStats{
		UniqueItems: c.Len(),
		TotalSlots:  c.TotalSlots,
		Categories:  c.Categories(),
		ScrapedAt:   c.ScrapedAt,
	}
}

// handleGetCatalog returns summary stats for the loaded catalog
func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.ensureCatalog(r.Context())
	if err != nil {
		s.logger.Error("failed to load catalog", "error", err)
		respondError(w, http.StatusBadGateway, "Failed to load collection log data")
		return
	}
	respondJSON(w, http.StatusOK, statsFor(catalog))
}

// handleRefreshCatalog re-scrapes the wiki and replaces the cached catalog
func (s *Server) handleRefreshCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := cache.Refresh(r.Context(), s.store, s.source)
	if err != nil {
		s.logger.Error("catalog refresh failed", "error", err)
		respondError(w, http.StatusBadGateway, "Failed to refresh collection log data")
		return
	}
	s.catalog.Set(catalog)
	respondJSON(w, http.StatusOK, statsFor(catalog))
}
