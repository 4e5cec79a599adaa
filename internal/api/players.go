package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meur/logroll/internal/models"
)

// handleGetPlayer returns a player's collection progress. ?refresh=true
// skips the per-player cache.
func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	rsn := chi.URLParam(r, "rsn")
	force := r.URL.Query().Get("refresh") == "true"

	collected, err := s.players.FetchCollected(r.Context(), rsn, force)
	if errors.Is(err, models.ErrPlayerNotFound) {
		respondError(w, http.StatusNotFound, "Player not found on TempleOSRS")
		return
	}
	if err != nil {
		s.logger.Error("player progress fetch failed", "rsn", rsn, "error", err)
		respondError(w, http.StatusBadGateway, "Failed to fetch player progress")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rsn":             rsn,
		"collected_count": len(collected),
	})
}
