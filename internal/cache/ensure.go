package cache

import (
	"context"

	"github.com/meur/logroll/internal/models"
)

// CatalogFetcher produces a fresh catalog from the source of truth.
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context) (*models.Catalog, error)
}

// EnsureCatalog returns the cached catalog if one is present, otherwise
// fetches a fresh one and writes it through. A failed write-through does
// not fail the call; the fetched catalog is still returned.
func EnsureCatalog(ctx context.Context, store *Store, fetcher CatalogFetcher) (*models.Catalog, error) {
	if catalog, ok := store.Load(); ok {
		return catalog, nil
	}
	return Refresh(ctx, store, fetcher)
}

// Refresh fetches a fresh catalog unconditionally and writes it through.
func Refresh(ctx context.Context, store *Store, fetcher CatalogFetcher) (*models.Catalog, error) {
	catalog, err := fetcher.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.Save(catalog); err != nil {
		store.logger.Warn("failed to write catalog cache", "path", store.path, "error", err)
	}
	return catalog, nil
}
