package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/export"
	"github.com/mmcdole/reel/internal/favorites"
	"github.com/mmcdole/reel/internal/filter"
	"github.com/mmcdole/reel/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alien   = domain.Movie{ID: 348, Title: "Alien", VoteAverage: 8.1, ReleaseDate: "1979-05-25"}
	aliens  = domain.Movie{ID: 679, Title: "Aliens", VoteAverage: 7.9, ReleaseDate: "1986-07-18"}
	arrival = domain.Movie{ID: 329865, Title: "Arrival", VoteAverage: 7.6, ReleaseDate: "2016-11-10"}
)

func newFacade(t *testing.T) *favorites.Facade {
	t.Helper()
	db, err := store.Open("")
	require.NoError(t, err)
	s := favorites.NewStore(db, favorites.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Initialize(context.Background())
	t.Cleanup(func() {
		s.Close()
		db.Close()
	})
	return favorites.NewFacade(s)
}

func ids(movies []domain.Movie) []int {
	out := make([]int, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}

func TestToggleByID(t *testing.T) {
	facade := newFacade(t)
	lookups := 0
	lookup := func(_ context.Context, id int) (domain.Movie, error) {
		lookups++
		if id == alien.ID {
			return alien, nil
		}
		return domain.Movie{}, domain.ErrMovieNotFound
	}

	movie, added, err := toggleByID(context.Background(), facade, lookup, alien.ID)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "Alien", movie.Title)
	assert.True(t, facade.IsFavorite(alien.ID))

	// Removing uses the stored record without a lookup
	movie, added, err = toggleByID(context.Background(), facade, lookup, alien.ID)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, "Alien", movie.Title)
	assert.Equal(t, 1, lookups)
	assert.Empty(t, facade.CurrentFavorites())

	_, _, err = toggleByID(context.Background(), facade, lookup, 1)
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)
	assert.Empty(t, facade.CurrentFavorites())
}

func TestImportMoviesSkipsExisting(t *testing.T) {
	facade := newFacade(t)
	facade.ToggleFavorite(aliens)

	added := importMovies(facade, []domain.Movie{alien, aliens, arrival, alien})
	assert.Equal(t, 2, added)
	assert.Equal(t, []int{679, 348, 329865}, ids(facade.CurrentFavorites()))
}

func TestSelectFavorites(t *testing.T) {
	movies := []domain.Movie{alien, aliens, arrival}

	got, err := selectFavorites(movies, nil, "")
	require.NoError(t, err)
	assert.Equal(t, ids(movies), ids(got))

	pred, err := filter.Compile("year < 2000")
	require.NoError(t, err)
	got, err = selectFavorites(movies, pred, "")
	require.NoError(t, err)
	assert.Equal(t, []int{348, 679}, ids(got))

	got, err = selectFavorites(movies, pred, "aliens")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, aliens.ID, got[0].ID)
}

func TestResolveFormat(t *testing.T) {
	f, err := resolveFormat("", "")
	require.NoError(t, err)
	assert.Equal(t, export.FormatJSON, f)

	f, err = resolveFormat("", "favs.toml")
	require.NoError(t, err)
	assert.Equal(t, export.FormatTOML, f)

	f, err = resolveFormat("yaml", "favs.json")
	require.NoError(t, err)
	assert.Equal(t, export.FormatYAML, f)

	_, err = resolveFormat("xml", "")
	assert.Error(t, err)
}

func TestPrintMovies(t *testing.T) {
	facade := newFacade(t)
	facade.ToggleFavorite(alien)

	var buf bytes.Buffer
	require.NoError(t, printMovies(&buf, []domain.Movie{alien, arrival}, false, facade))
	out := buf.String()
	assert.Contains(t, out, "♥ 348      Alien (1979)  ★ 8.1")
	assert.Contains(t, out, "♡ 329865   Arrival (2016)  ★ 7.6")

	buf.Reset()
	require.NoError(t, printMovies(&buf, nil, true, facade))
	var decoded []domain.Movie
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Empty(t, decoded)
	assert.Equal(t, "[]\n", buf.String())
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, domain.FavoritesStats{})
	assert.Equal(t, "No favorites yet.\n", buf.String())

	buf.Reset()
	printStats(&buf, favorites.ComputeStats([]domain.Movie{alien, aliens}))
	assert.Contains(t, buf.String(), "Favorites:       2")
	assert.Contains(t, buf.String(), "★ 8.0")
	assert.Contains(t, buf.String(), "4h 00m")
}
