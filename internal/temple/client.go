// Package temple fetches a player's collection log progress from the
// TempleOSRS API.
package temple

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/meur/logroll/internal/models"
)

// DefaultUserAgent is sent with every request. TempleOSRS rejects
// default Go client identifiers, so a browser-like agent is required.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

// DefaultBaseURL is the TempleOSRS API root.
const DefaultBaseURL = "https://templeosrs.com/api"

// playerNotFoundCode is TempleOSRS's API error code for an unknown or
// untracked player.
const playerNotFoundCode = 402

// Client queries TempleOSRS for a player's collected items. Responses can
// be cached per RSN in short-lived JSON files; a zero TTL or empty cache
// dir disables caching.
type Client struct {
	baseURL    string
	userAgent  string
	referer    string
	httpClient *http.Client
	cacheDir   string
	cacheTTL   time.Duration
	logger     *slog.Logger
}

// Options configures a Client beyond its base URL.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	CacheDir  string
	CacheTTL  time.Duration
}

// NewClient creates a Client for the given API root. The Referer header is
// derived from the API root's origin.
func NewClient(baseURL string, opts Options, logger *slog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	referer := ""
	if u, err := url.Parse(baseURL); err == nil {
		referer = u.Scheme + "://" + u.Host + "/"
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		referer:    referer,
		httpClient: &http.Client{Timeout: timeout},
		cacheDir:   opts.CacheDir,
		cacheTTL:   opts.CacheTTL,
		logger:     logger,
	}
}

type apiError struct {
	Code    int    `json:"Code"`
	Message string `json:"Message"`
}

type collectionEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// collectionResponse keeps the error field raw: the API usually sends a
// {Code, Message} object but the shape is not versioned, so a bare string
// must still map into the error taxonomy.
type collectionResponse struct {
	Error json.RawMessage `json:"error"`
	Data  struct {
		Items map[string]collectionEntry `json:"items"`
	} `json:"data"`
}

// decodeError normalizes whatever shape the API put in its error field.
func decodeError(raw json.RawMessage) apiError {
	var structured apiError
	if err := json.Unmarshal(raw, &structured); err == nil {
		return structured
	}
	var message string
	if err := json.Unmarshal(raw, &message); err == nil {
		return apiError{Message: message}
	}
	return apiError{Message: string(raw)}
}

// cachedProgress is the per-RSN cache file format.
type cachedProgress struct {
	FetchedAt time.Time `json:"fetched_at"`
	Collected []string  `json:"collected"`
}

// FetchCollected returns the set of item names the player owns. An unknown
// or private RSN surfaces as models.ErrPlayerNotFound; transport and decode
// failures surface as *models.FetchError. force skips a still-valid cache
// file, for players whose log changed inside the TTL.
func (c *Client) FetchCollected(ctx context.Context, rsn string, force bool) (map[string]bool, error) {
	rsn = strings.TrimSpace(rsn)
	if rsn == "" {
		return nil, fmt.Errorf("rsn must not be empty")
	}

	if !force {
		if names, ok := c.readCache(rsn); ok {
			return toSet(names), nil
		}
	}

	names, err := c.fetch(ctx, rsn)
	if err != nil {
		return nil, err
	}
	c.writeCache(rsn, names)
	return toSet(names), nil
}

func (c *Client) fetch(ctx context.Context, rsn string) ([]string, error) {
	endpoint := c.baseURL + "/collection-log/player_collections.php?player=" + url.QueryEscape(rsn)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &models.FetchError{URL: endpoint, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Referer", c.referer)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.FetchError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &models.FetchError{URL: endpoint, Err: fmt.Errorf("status %s", resp.Status)}
	}

	var body collectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &models.FetchError{URL: endpoint, Err: err}
	}

	if len(body.Error) > 0 && string(body.Error) != "null" {
		apiErr := decodeError(body.Error)
		if apiErr.Code == playerNotFoundCode ||
			strings.Contains(strings.ToLower(apiErr.Message), "player") {
			return nil, fmt.Errorf("%s: %w", rsn, models.ErrPlayerNotFound)
		}
		return nil, &models.FetchError{URL: endpoint, Err: fmt.Errorf("api error %d: %s", apiErr.Code, apiErr.Message)}
	}
	if body.Data.Items == nil {
		return nil, &models.FetchError{URL: endpoint, Err: models.ErrBadStructure}
	}

	var names []string
	for _, entry := range body.Data.Items {
		if entry.Count > 0 && entry.Name != "" {
			names = append(names, entry.Name)
		}
	}

	c.logger.Info("fetched player progress",
		"rsn", rsn, "collected", len(names), "tracked", len(body.Data.Items))
	return names, nil
}

func (c *Client) cachePath(rsn string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, rsn)
	return filepath.Join(c.cacheDir, clean+".json")
}

func (c *Client) readCache(rsn string) ([]string, bool) {
	if c.cacheDir == "" || c.cacheTTL <= 0 {
		return nil, false
	}
	data, err := os.ReadFile(c.cachePath(rsn))
	if err != nil {
		return nil, false
	}
	var cached cachedProgress
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}
	if time.Since(cached.FetchedAt) >= c.cacheTTL {
		return nil, false
	}
	return cached.Collected, true
}

func (c *Client) writeCache(rsn string, names []string) {
	if c.cacheDir == "" || c.cacheTTL <= 0 {
		return
	}
	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		c.logger.Warn("failed to create player cache dir", "dir", c.cacheDir, "error", err)
		return
	}
	data, err := json.Marshal(cachedProgress{FetchedAt: time.Now().UTC(), Collected: names})
	if err != nil {
		return
	}
	if err := os.WriteFile(c.cachePath(rsn), data, 0o644); err != nil {
		c.logger.Warn("failed to write player cache", "rsn", rsn, "error", err)
	}
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
