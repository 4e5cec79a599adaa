package api

import (
	"sync"

	"github.com/meur/logroll/internal/models"
)

// catalogHolder keeps the loaded catalog behind a lock so concurrent
// requests share one snapshot. The catalog itself is never mutated; a
// refresh swaps the pointer.
type catalogHolder struct {
	mu      sync.RWMutex
	catalog *models.Catalog
}

func (h *catalogHolder) Get() *models.Catalog {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalog
}

func (h *catalogHolder) Set(c *models.Catalog) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.catalog = c
}
