// Package wiki scrapes the collection log page on the OSRS Wiki into a
// catalog of unique items.
package wiki

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/meur/logroll/internal/models"
)

const (
	// DefaultURL is the page the catalog is built from.
	DefaultURL = "https://oldschool.runescape.wiki/w/Collection_log"

	// DefaultUserAgent identifies the scraper to the wiki, as its API
	// etiquette asks.
	DefaultUserAgent = "logroll/1.0 (collection log randomizer)"
)

// skipHeadlines are page-level h2 headlines that are not log categories.
var skipHeadlines = map[string]bool{
	"Contents":             true,
	"Navigation menu":      true,
	"Combat stats":         true,
	"Ranks":                true,
	"Notes and references": true,
}

// Scraper fetches and parses the collection log page. A single attempt is
// made per call; falling back to a cached catalog is the caller's decision.
type Scraper struct {
	url        string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Scraper for the given page URL. Relative links and icon
// paths in the page are resolved against the URL's host.
func New(pageURL, userAgent string, logger *slog.Logger) *Scraper {
	base := ""
	if u, err := url.Parse(pageURL); err == nil {
		base = u.Scheme + "://" + u.Host
	}
	return &Scraper{
		url:        pageURL,
		baseURL:    base,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// FetchCatalog retrieves the page and parses it into a Catalog. Network
// failures and structural drift both surface as *models.FetchError; a page
// that yields no categories or no items is rejected rather than returned
// partially parsed.
func (s *Scraper) FetchCatalog(ctx context.Context) (*models.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &models.FetchError{URL: s.url, Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &models.FetchError{URL: s.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &models.FetchError{URL: s.url, Err: fmt.Errorf("status %s", resp.Status)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &models.FetchError{URL: s.url, Err: err}
	}

	catalog, err := s.parse(doc)
	if err != nil {
		return nil, &models.FetchError{URL: s.url, Err: err}
	}

	s.logger.Info("scraped collection log",
		"unique_items", catalog.Len(), "total_slots", catalog.TotalSlots)
	return catalog, nil
}

// parse walks the page structure: h2 headlines are categories, h3 headlines
// between them are subcategories, and tables under a subcategory hold one
// item per cell.
func (s *Scraper) parse(doc *goquery.Document) (*models.Catalog, error) {
	var items []models.Item
	index := make(map[string]int)
	totalSlots := 0
	categories := 0

	doc.Find("h2").Each(func(_ int, h2 *goquery.Selection) {
		category := headline(h2)
		if category == "" || skipHeadlines[category] {
			return
		}
		categories++

		subcategory := ""
		h2.NextUntil("h2").Each(func(_ int, el *goquery.Selection) {
			switch {
			case el.Is("h3"):
				subcategory = headline(el)
			case el.Is("table") && subcategory != "":
				source := category + " > " + subcategory
				el.Find("td").Each(func(_ int, td *goquery.Selection) {
					name, href := itemLink(td)
					if name == "" {
						return
					}
					totalSlots++
					if i, ok := index[name]; ok {
						if !items[i].HasSource(source) {
							items[i].Sources = append(items[i].Sources, source)
						}
						return
					}
					index[name] = len(items)
					items = append(items, models.Item{
						Name:     name,
						Category: category,
						Sources:  []string{source},
						IconURL:  s.iconURL(td),
						WikiURL:  s.baseURL + href,
					})
				})
			}
		})
	})

	if categories == 0 || len(items) == 0 {
		return nil, models.ErrBadStructure
	}

	return &models.Catalog{
		Items:      items,
		TotalSlots: totalSlots,
		ScrapedAt:  time.Now().UTC(),
	}, nil
}

// headline extracts the text of a heading's mw-headline span.
func headline(h *goquery.Selection) string {
	return strings.TrimSpace(h.Find("span.mw-headline").First().Text())
}

// itemLink finds the item's text link in a table cell. Each cell carries the
// item as both an icon link and a text link; the text link is the last
// article link with no image child. File: and other namespaced links are
// skipped so navigation chrome never parses as an item.
func itemLink(td *goquery.Selection) (name, href string) {
	td.Find("a[href][title]").Each(func(_ int, link *goquery.Selection) {
		h := link.AttrOr("href", "")
		title := link.AttrOr("title", "")
		if !strings.HasPrefix(h, "/w/") || strings.Contains(title, ":") || strings.HasPrefix(h, "/w/File:") {
			return
		}
		if link.ChildrenFiltered("img").Length() == 0 {
			name, href = title, h
		}
	})
	return name, href
}

// iconURL pulls the first image in a cell, resolved to an absolute URL.
func (s *Scraper) iconURL(td *goquery.Selection) string {
	src := td.Find("img").First().AttrOr("src", "")
	if src == "" {
		return ""
	}
	if strings.HasPrefix(src, "/") {
		return s.baseURL + src
	}
	return src
}
