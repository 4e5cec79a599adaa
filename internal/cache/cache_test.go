package cache

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/meur/logroll/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog() *models.Catalog {
	return &models.Catalog{
		Items: []models.Item{
			{
				Name:     "Abyssal whip",
				Category: "Bosses",
				Sources:  []string{"Bosses > Abyssal Sire", "Bosses > Kraken"},
				IconURL:  "https://example.com/whip.png",
			},
			{
				Name:     "Twisted bow",
				Category: "Raids",
				Sources:  []string{"Raids > Chambers of Xeric"},
				IconURL:  "https://example.com/bow.png",
			},
		},
		TotalSlots: 3,
		ScrapedAt:  time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "catalog.json"), testLogger())
	want := testCatalog()

	if err := store.Save(want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, ok := store.Load()
	if !ok {
		t.Fatal("expected cached catalog to load")
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "absent.json"), testLogger())
	if _, ok := store.Load(); ok {
		t.Fatal("expected miss for missing file")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte("{\"items\": [{"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := New(path, testLogger())
	if _, ok := store.Load(); ok {
		t.Fatal("expected corrupt file to read as absent")
	}
}

func TestLoadEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`{"items": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	store := New(path, testLogger())
	if _, ok := store.Load(); ok {
		t.Fatal("expected empty catalog to read as absent")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "nested", "dir", "catalog.json"), testLogger())
	if err := store.Save(testCatalog()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, ok := store.Load(); !ok {
		t.Fatal("expected catalog under created directory to load")
	}
}

type fakeFetcher struct {
	catalog *models.Catalog
	err     error
	calls   int
}

func (f *fakeFetcher) FetchCatalog(ctx context.Context) (*models.Catalog, error) {
	f.calls++
	return f.catalog, f.err
}

func TestEnsureCatalogUsesCache(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "catalog.json"), testLogger())
	if err := store.Save(testCatalog()); err != nil {
		t.Fatal(err)
	}

	fetcher := &fakeFetcher{catalog: testCatalog()}
	got, err := EnsureCatalog(context.Background(), store, fetcher)
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if fetcher.calls != 0 {
		t.Fatalf("fetcher called %d times with warm cache", fetcher.calls)
	}
	if got.Len() != 2 {
		t.Fatalf("unexpected catalog size %d", got.Len())
	}
}

func TestEnsureCatalogFetchesOnMiss(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "catalog.json"), testLogger())
	fetcher := &fakeFetcher{catalog: testCatalog()}

	got, err := EnsureCatalog(context.Background(), store, fetcher)
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetcher called %d times, expected 1", fetcher.calls)
	}
	if got.Len() != 2 {
		t.Fatalf("unexpected catalog size %d", got.Len())
	}

	// The fetched catalog must have been written through.
	if _, ok := store.Load(); !ok {
		t.Fatal("expected write-through to the cache file")
	}
}

func TestEnsureCatalogFetchFailure(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "catalog.json"), testLogger())
	fetcher := &fakeFetcher{err: &models.FetchError{URL: "x", Err: models.ErrBadStructure}}

	if _, err := EnsureCatalog(context.Background(), store, fetcher); err == nil {
		t.Fatal("expected fetch failure to surface")
	}
}

func TestRefreshAlwaysFetches(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "catalog.json"), testLogger())
	stale := testCatalog()
	stale.Items = stale.Items[:1]
	if err := store.Save(stale); err != nil {
		t.Fatal(err)
	}

	fetcher := &fakeFetcher{catalog: testCatalog()}
	got, err := Refresh(context.Background(), store, fetcher)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetcher called %d times, expected 1", fetcher.calls)
	}
	if got.Len() != 2 {
		t.Fatalf("expected fresh catalog, got %d items", got.Len())
	}

	reloaded, ok := store.Load()
	if !ok || reloaded.Len() != 2 {
		t.Fatal("expected refresh to replace the cache file")
	}
}
