package favorites

import (
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

// NominalRuntime is the per-movie length used for the collection's
// estimated runtime; listings do not carry real runtimes.
const NominalRuntime = 120 * time.Minute

// Facade is the read/write entry point for UI surfaces.
// Implements domain.FavoritesAccess.
type Facade struct {
	store *Store
}

var _ domain.FavoritesAccess = (*Facade)(nil)

// NewFacade creates a facade over store.
func NewFacade(store *Store) *Facade {
	return &Facade{store: store}
}

func (f *Facade) CurrentFavorites() []domain.Movie {
	return f.store.Snapshot()
}

// IsFavorite is derived from the list on every call; there is no
// separate membership index to drift out of sync.
func (f *Facade) IsFavorite(id int) bool {
	return f.store.Contains(id)
}

func (f *Facade) ToggleFavorite(movie domain.Movie) {
	f.store.Toggle(movie)
}

func (f *Facade) Subscribe(observer domain.FavoritesObserver) func() {
	return f.store.Subscribe(observer)
}

func (f *Facade) Stats() domain.FavoritesStats {
	return ComputeStats(f.store.Snapshot())
}

// ComputeStats summarizes a favorites list.
func ComputeStats(movies []domain.Movie) domain.FavoritesStats {
	stats := domain.FavoritesStats{Count: len(movies)}
	if len(movies) == 0 {
		return stats
	}
	var sum float64
	for _, m := range movies {
		sum += m.VoteAverage
	}
	stats.AverageRating = sum / float64(len(movies))
	stats.EstimatedRuntime = time.Duration(len(movies)) * NominalRuntime
	return stats
}
