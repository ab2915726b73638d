package domain

import "time"

// FavoritesAccess is the single read/write entry point UI surfaces use for
// favorites. Reads reflect every completed toggle synchronously.
type FavoritesAccess interface {
	// CurrentFavorites returns the favorites in insertion order
	CurrentFavorites() []Movie

	// IsFavorite reports whether a movie with this id is a favorite
	IsFavorite(id int) bool

	// ToggleFavorite adds the movie if absent, removes it if present
	ToggleFavorite(movie Movie)

	// Subscribe registers an observer and returns a function that removes it
	Subscribe(observer FavoritesObserver) (unsubscribe func())

	// Stats summarizes the collection for the favorites header
	Stats() FavoritesStats
}

// FavoritesStats is the summary shown above the favorites grid.
type FavoritesStats struct {
	Count            int
	AverageRating    float64       // 0 when empty
	EstimatedRuntime time.Duration // Count x a nominal feature length
}
