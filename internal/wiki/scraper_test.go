package wiki

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/meur/logroll/internal/models"
)

const fixturePage = `<!DOCTYPE html>
<html><body>
<h2><span class="mw-headline">Contents</span></h2>
<h2><span class="mw-headline">Bosses</span></h2>
<h3><span class="mw-headline">Abyssal Sire</span></h3>
<table><tbody><tr>
<td>
  <a href="/w/File:Abyssal_orphan.png"><img src="/images/Abyssal_orphan.png"></a>
  <a href="/w/Abyssal_orphan" title="Abyssal orphan">Abyssal orphan</a>
</td>
<td>
  <a href="/w/File:Abyssal_whip.png"><img src="/images/Abyssal_whip.png"></a>
  <a href="/w/Abyssal_whip" title="Abyssal whip">Abyssal whip</a>
</td>
<td></td>
</tr></tbody></table>
<h3><span class="mw-headline">Kraken</span></h3>
<table><tbody><tr>
<td>
  <a href="/w/File:Abyssal_whip.png"><img src="/images/Abyssal_whip.png"></a>
  <a href="/w/Abyssal_whip" title="Abyssal whip">Abyssal whip</a>
</td>
<td>
  <a href="/w/Trident_of_the_seas" title="Trident of the seas">Trident of the seas</a>
</td>
</tr></tbody></table>
<h2><span class="mw-headline">Raids</span></h2>
<h3><span class="mw-headline">Chambers of Xeric</span></h3>
<table><tbody><tr>
<td>
  <a href="/w/File:Twisted_bow.png"><img src="/images/Twisted_bow.png"></a>
  <a href="/w/Twisted_bow" title="Twisted bow">Twisted bow</a>
</td>
</tr></tbody></table>
<h2><span class="mw-headline">Navigation menu</span></h2>
</body></html>`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("user agent %q, expected test-agent", got)
		}
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchCatalog(t *testing.T) {
	srv := serve(t, fixturePage)
	scraper := New(srv.URL+"/w/Collection_log", "test-agent", testLogger())

	catalog, err := scraper.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if catalog.Len() != 4 {
		t.Fatalf("unique items %d, expected 4", catalog.Len())
	}
	if catalog.TotalSlots != 5 {
		t.Fatalf("total slots %d, expected 5", catalog.TotalSlots)
	}
	if catalog.ScrapedAt.IsZero() {
		t.Fatal("expected scrape timestamp")
	}

	wantCategories := []string{"Bosses", "Raids"}
	if got := catalog.Categories(); !reflect.DeepEqual(got, wantCategories) {
		t.Fatalf("categories %v, expected %v", got, wantCategories)
	}
}

func TestFetchCatalogMergesDuplicates(t *testing.T) {
	srv := serve(t, fixturePage)
	scraper := New(srv.URL+"/w/Collection_log", "test-agent", testLogger())

	catalog, err := scraper.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	var whip *models.Item
	for i := range catalog.Items {
		if catalog.Items[i].Name == "Abyssal whip" {
			whip = &catalog.Items[i]
		}
	}
	if whip == nil {
		t.Fatal("Abyssal whip not parsed")
	}

	wantSources := []string{"Bosses > Abyssal Sire", "Bosses > Kraken"}
	if !reflect.DeepEqual(whip.Sources, wantSources) {
		t.Fatalf("sources %v, expected %v", whip.Sources, wantSources)
	}
	if whip.Category != "Bosses" {
		t.Fatalf("category %q, expected first-seen Bosses", whip.Category)
	}
	if whip.IconURL != srv.URL+"/images/Abyssal_whip.png" {
		t.Fatalf("icon url %q", whip.IconURL)
	}
	if whip.WikiURL != srv.URL+"/w/Abyssal_whip" {
		t.Fatalf("wiki url %q", whip.WikiURL)
	}
}

func TestFetchCatalogMissingIcon(t *testing.T) {
	srv := serve(t, fixturePage)
	scraper := New(srv.URL+"/w/Collection_log", "test-agent", testLogger())

	catalog, err := scraper.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	for _, item := range catalog.Items {
		if item.Name == "Trident of the seas" {
			if item.IconURL != "" {
				t.Fatalf("expected blank icon, got %q", item.IconURL)
			}
			return
		}
	}
	t.Fatal("Trident of the seas not parsed")
}

func TestFetchCatalogFailsClosed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no headlines", body: `<html><body><p>moved</p></body></html>`},
		{name: "headlines without items", body: `<html><body><h2><span class="mw-headline">Bosses</span></h2></body></html>`},
		{name: "only navigation headlines", body: `<html><body><h2><span class="mw-headline">Navigation menu</span></h2></body></html>`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := serve(t, tc.body)
			scraper := New(srv.URL+"/w/Collection_log", "test-agent", testLogger())

			_, err := scraper.FetchCatalog(context.Background())
			var fetchErr *models.FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected FetchError, got %v", err)
			}
			if !errors.Is(err, models.ErrBadStructure) {
				t.Fatalf("expected ErrBadStructure cause, got %v", err)
			}
		})
	}
}

func TestFetchCatalogHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	scraper := New(srv.URL+"/w/Collection_log", "test-agent", testLogger())
	_, err := scraper.FetchCatalog(context.Background())
	var fetchErr *models.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}
