// Package cache persists the scraped catalog to a flat JSON file so the
// wiki is not re-scraped on every start.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meur/logroll/internal/models"
)

// Store reads and writes the catalog cache file. It enforces no expiry
// policy of its own; staleness is the caller's decision.
type Store struct {
	path   string
	logger *slog.Logger
}

// New creates a Store backed by the given file path.
func New(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the cache file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the cached catalog. A missing, unreadable, corrupt or empty
// file is reported as absent (nil, false), never as an error.
func (s *Store) Load() (*models.Catalog, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false
	}

	var catalog models.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		s.logger.Warn("discarding corrupt catalog cache", "path", s.path, "error", err)
		return nil, false
	}
	if len(catalog.Items) == 0 {
		return nil, false
	}

	s.logger.Info("loaded catalog from cache",
		"path", s.path, "unique_items", catalog.Len(), "scraped_at", catalog.ScrapedAt)
	return &catalog, true
}

// Save writes the catalog to the cache file. The write goes through a temp
// file and rename so a torn write reads back as corrupt instead of wrong.
func (s *Store) Save(catalog *models.Catalog) error {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write catalog cache: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write catalog cache: %w", err)
	}
	return nil
}
