package favorites

import (
	"context"
	"testing"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacade_Scenario(t *testing.T) {
	f := NewFacade(newTestStore(t, newMemKV()))

	assert.Empty(t, f.CurrentFavorites())
	assert.False(t, f.IsFavorite(42))

	f.ToggleFavorite(domain.Movie{ID: 42, Title: "X"})
	assert.Equal(t, []int{42}, ids(f.CurrentFavorites()))
	assert.True(t, f.IsFavorite(42))

	f.ToggleFavorite(domain.Movie{ID: 42, Title: "X"})
	assert.Empty(t, f.CurrentFavorites())
	assert.False(t, f.IsFavorite(42))
}

func TestFacade_IsFavoriteAgreesWithList(t *testing.T) {
	f := NewFacade(newTestStore(t, newMemKV()))

	for _, id := range []int{1, 2, 3, 2, 4, 1, 5, 5, 6} {
		f.ToggleFavorite(domain.Movie{ID: id})

		current := f.CurrentFavorites()
		for probe := 0; probe <= 7; probe++ {
			assert.Equal(t, domain.ContainsMovie(current, probe), f.IsFavorite(probe), "probe %d", probe)
		}
	}
}

func TestFacade_SubscribersSeeToggles(t *testing.T) {
	f := NewFacade(newTestStore(t, newMemKV()))

	var latest []domain.Movie
	unsubscribe := f.Subscribe(domain.ObserverFunc(func(favs []domain.Movie) { latest = favs }))
	defer unsubscribe()

	f.ToggleFavorite(domain.Movie{ID: 7, Title: "Seven"})
	assert.Equal(t, f.CurrentFavorites(), latest)
}

func TestFacade_Stats(t *testing.T) {
	f := NewFacade(newTestStore(t, newMemKV()))

	assert.Equal(t, domain.FavoritesStats{}, f.Stats())

	f.ToggleFavorite(domain.Movie{ID: 1, VoteAverage: 8.0})
	f.ToggleFavorite(domain.Movie{ID: 2, VoteAverage: 6.0})
	f.ToggleFavorite(domain.Movie{ID: 3, VoteAverage: 7.0})

	stats := f.Stats()
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 7.0, stats.AverageRating, 1e-9)
	assert.Equal(t, 360*time.Minute, stats.EstimatedRuntime)
}

func TestFacade_SurvivesRestartOnBolt(t *testing.T) {
	dir := t.TempDir()

	db, err := store.Open(dir)
	require.NoError(t, err)
	s := NewStore(db, WithLogger(discardLogger()))
	s.Initialize(context.Background())
	f := NewFacade(s)
	f.ToggleFavorite(domain.Movie{ID: 11, Title: "Eleven"})
	f.ToggleFavorite(domain.Movie{ID: 12, Title: "Twelve"})
	f.ToggleFavorite(domain.Movie{ID: 11, Title: "Eleven"})
	f.ToggleFavorite(domain.Movie{ID: 13, Title: "Thirteen"})
	s.Close()
	require.NoError(t, db.Close())

	db, err = store.Open(dir)
	require.NoError(t, err)
	defer db.Close()
	s = NewStore(db, WithLogger(discardLogger()))
	defer s.Close()
	s.Initialize(context.Background())

	assert.Equal(t, []domain.Movie{{ID: 12, Title: "Twelve"}, {ID: 13, Title: "Thirteen"}}, NewFacade(s).CurrentFavorites())
}
