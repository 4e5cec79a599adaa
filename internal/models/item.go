package models

import "time"

// Item is a single collection log entry, keyed by name. An item that
// appears on several log pages is stored once, with every
// "Category > Subcategory" pair it was seen under accumulated in Sources.
type Item struct {
	Name     string   `json:"name"`
	Category string   `json:"category"` // category the item was first seen under
	Sources  []string `json:"sources"`
	IconURL  string   `json:"icon_url"`
	WikiURL  string   `json:"wiki_url,omitempty"`
}

// HasSource reports whether the item already carries the given source label.
func (i Item) HasSource(source string) bool {
	for _, s := range i.Sources {
		if s == source {
			return true
		}
	}
	return false
}

// Catalog is the full set of unique collection log items from one scrape.
// It is immutable after load; a refresh produces a new Catalog.
type Catalog struct {
	Items      []Item    `json:"items"`
	TotalSlots int       `json:"total_slots"` // slot count before de-duplication
	ScrapedAt  time.Time `json:"scraped_at"`
}

// Len returns the number of unique items.
func (c *Catalog) Len() int {
	return len(c.Items)
}

// Categories returns the distinct primary categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range c.Items {
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	return out
}
