package domain

import (
	"context"
	"strings"
)

// Category selects which catalog listing to browse.
type Category string

const (
	CategoryPopular    Category = "popular"
	CategoryTopRated   Category = "top_rated"
	CategoryUpcoming   Category = "upcoming"
	CategoryNowPlaying Category = "now_playing"
)

// Categories lists every browsable category in menu order.
var Categories = []Category{CategoryPopular, CategoryTopRated, CategoryUpcoming, CategoryNowPlaying}

// Label returns the display name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryTopRated:
		return "Top Rated"
	case CategoryUpcoming:
		return "Upcoming"
	case CategoryNowPlaying:
		return "Now Playing"
	default:
		return "Popular"
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory maps a user-supplied name to a Category.
// Unknown names yield CategoryPopular with ok=false.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, true
	}
	return CategoryPopular, false
}

// CatalogQueries: Synchronous, cache-only reads.
// Safe to call from View() and navigation code.
type CatalogQueries interface {
	CachedListing(category Category) ([]Movie, bool)
}

// CatalogCommands: Asynchronous operations that may hit network.
// Must be called from tea.Cmd functions, never from View().
type CatalogCommands interface {
	// Cached if fresh, otherwise fetched and cached
	FetchListing(ctx context.Context, category Category, onProgress ProgressFunc) (ListingResult, error)

	// Invalidate + fetch (manual 'r')
	RefreshListing(ctx context.Context, category Category, onProgress ProgressFunc) (ListingResult, error)

	Search(ctx context.Context, query string) ([]Movie, error)
	LookupMovie(ctx context.Context, id int) (Movie, error)
}

// CatalogRepository: Network operations (implemented by the TMDB client)
type CatalogRepository interface {
	// ListMovies returns one page of a category listing plus the total page count
	ListMovies(ctx context.Context, category Category, page int) ([]Movie, int, error)

	// SearchMovies returns one page of search results plus the total page count
	SearchMovies(ctx context.Context, query string, page int) ([]Movie, int, error)

	// GetMovie returns a single movie by id
	GetMovie(ctx context.Context, id int) (Movie, error)
}
