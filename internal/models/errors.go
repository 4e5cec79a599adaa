package models

import (
	"errors"
	"fmt"
)

var (
	// ErrPlayerNotFound means the progress API does not know the RSN, or the
	// profile is private. User-correctable, unlike a transport failure.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrEmptyPool means every item in the catalog was excluded.
	ErrEmptyPool = errors.New("no items left to roll")

	// ErrBadStructure means a page or response did not have the expected
	// shape. The scraper fails closed on it rather than mis-parsing.
	ErrBadStructure = errors.New("unexpected page structure")
)

// FetchError wraps a failure to retrieve or parse an external resource.
// Callers recover by falling back to the cache or surfacing a message.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
