package models

import "time"

// Roll is the result of one random selection. Rolls are ephemeral and
// never persisted.
type Roll struct {
	ID         string    `json:"id"`
	Item       Item      `json:"item"`
	RolledAt   time.Time `json:"rolled_at"`
	TempleMode bool      `json:"temple_mode"` // collected items were excluded
	Weighted   bool      `json:"weighted"`    // weighted by source count
	PoolSize   int       `json:"pool_size"`   // items the roll was drawn from
}

// DisplayPayload is the flattened view of an item the UI renders.
type DisplayPayload struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Source   string   `json:"source"` // primary source
	Sources  []string `json:"sources"`
	IconURL  string   `json:"icon_url"`
	WikiURL  string   `json:"wiki_url,omitempty"`
}
