package catalog

import "github.com/mmcdole/reel/internal/domain"

// Queries provides synchronous, cache-only reads.
// Implements domain.CatalogQueries.
type Queries struct {
	store domain.ListingStore
}

var _ domain.CatalogQueries = (*Queries)(nil)

// NewQueries creates a new Queries instance.
func NewQueries(store domain.ListingStore) *Queries {
	return &Queries{store: store}
}

// CachedListing returns whatever is cached for the category, stale or not.
func (q *Queries) CachedListing(category domain.Category) ([]domain.Movie, bool) {
	movies, _, ok := q.store.GetListing(category)
	return movies, ok
}
