package api

import (
	"embed"
	"net/http"
)

var (
	//go:embed templates
	templatesFS embed.FS
	//go:embed assets
	assetsFS embed.FS
)

type indexData struct {
	UniqueItems int
	TotalSlots  int
	CacheReady  bool
}

// handleIndex renders the roll page. Catalog stats are best effort; the
// page still loads when the first scrape has not happened yet.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{}
	if catalog, err := s.ensureCatalog(r.Context()); err == nil {
		data.UniqueItems = catalog.Len()
		data.TotalSlots = catalog.TotalSlots
		data.CacheReady = true
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("failed to render index", "error", err)
	}
}
