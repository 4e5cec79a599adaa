package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/meur/logroll/internal/models"
	"github.com/meur/logroll/internal/roll"
)

type rollRequest struct {
	RSN          string `json:"rsn"`           // optional; enables Temple Mode
	Weighted     bool   `json:"weighted"`      // weight items by source count
	ForceRefresh bool   `json:"force_refresh"` // skip the per-player progress cache
}

type rollResponse struct {
	Roll         *models.Roll           `json:"roll,omitempty"`
	Display      *models.DisplayPayload `json:"display,omitempty"`
	AllCollected bool                   `json:"all_collected,omitempty"`
	Message      string                 `json:"message,omitempty"`
}

// handleRoll picks a random item, optionally excluding a player's
// collected items
func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	var req rollRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	catalog, err := s.ensureCatalog(r.Context())
	if err != nil {
		s.logger.Error("failed to load catalog", "error", err)
		respondError(w, http.StatusBadGateway, "Failed to load collection log data")
		return
	}

	var exclude map[string]bool
	if rsn := strings.TrimSpace(req.RSN); rsn != "" {
		exclude, err = s.players.FetchCollected(r.Context(), rsn, req.ForceRefresh)
		if errors.Is(err, models.ErrPlayerNotFound) {
			respondError(w, http.StatusNotFound, "Player not found on TempleOSRS")
			return
		}
		if err != nil {
			s.logger.Error("player progress fetch failed", "rsn", rsn, "error", err)
			respondError(w, http.StatusBadGateway, "Failed to fetch player progress")
			return
		}
	}

	result, err := s.roller.Roll(catalog, exclude, req.Weighted)
	if errors.Is(err, models.ErrEmptyPool) {
		respondJSON(w, http.StatusOK, rollResponse{
			AllCollected: true,
			Message:      "Congratulations! Every collection log item is already collected.",
		})
		return
	}
	if err != nil {
		s.logger.Error("roll failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to roll an item")
		return
	}

	display := roll.Render(result.Item)
	respondJSON(w, http.StatusOK, rollResponse{Roll: &result, Display: &display})
}
