package search

import (
	"context"
	"errors"
	"testing"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var movies = []domain.Movie{
	{ID: 1, Title: "The Matrix"},
	{ID: 2, Title: "Matrix"},
	{ID: 3, Title: "Inception"},
	{ID: 4, Title: "The Matrix Reloaded"},
	{ID: 5, Title: "Mad Max: Fury Road"},
}

func titles(list []domain.Movie) []string {
	out := make([]string, len(list))
	for i, m := range list {
		out[i] = m.Title
	}
	return out
}

func TestFilter_CaseInsensitive(t *testing.T) {
	matches := Filter(movies, "MATRIX")
	require.Len(t, matches, 3)
	for _, m := range matches {
		assert.Contains(t, m.Movie.Title, "Matrix")
		assert.Equal(t, m.Movie, movies[m.Index])
		assert.Len(t, m.MatchedIndexes, len("matrix"))
	}
}

func TestFilter_EmptyQuery(t *testing.T) {
	assert.Nil(t, Filter(movies, "   "))
	assert.Nil(t, FilterIndexes(movies, ""))
}

func TestFilter_Subsequence(t *testing.T) {
	idx := FilterIndexes(movies, "incp")
	assert.Equal(t, []int{2}, idx)
}

func TestTitleIndex_Source(t *testing.T) {
	idx := NewTitleIndex(movies)
	assert.Equal(t, len(movies), idx.Len())
	assert.Equal(t, "inception", idx.String(2))
}

func TestRank_ExactThenPrefixThenContains(t *testing.T) {
	ranked := Rank(movies, "matrix")
	assert.Equal(t, []string{"Matrix", "The Matrix", "The Matrix Reloaded"}, titles(ranked))
}

func TestRank_NoMatches(t *testing.T) {
	assert.Empty(t, Rank(movies, "zzz"))
	assert.Nil(t, Rank(movies, ""))
}

type fakeCommands struct {
	domain.CatalogCommands
	results []domain.Movie
	err     error
}

func (f fakeCommands) Search(context.Context, string) ([]domain.Movie, error) {
	return f.results, f.err
}

type fakeQueries map[domain.Category][]domain.Movie

func (f fakeQueries) CachedListing(c domain.Category) ([]domain.Movie, bool) {
	m, ok := f[c]
	return m, ok
}

type fakeFavorites struct {
	domain.FavoritesAccess
	list []domain.Movie
}

func (f fakeFavorites) CurrentFavorites() []domain.Movie { return f.list }

func TestService_OnlineUsesCatalog(t *testing.T) {
	svc := NewService(fakeCommands{results: movies[:1]}, fakeQueries{}, nil, nil)

	got, local, err := svc.Search(context.Background(), "matrix")
	require.NoError(t, err)
	assert.False(t, local)
	assert.Equal(t, movies[:1], got)
}

func TestService_OfflineFallsBackToLocal(t *testing.T) {
	queries := fakeQueries{
		domain.CategoryPopular:  {movies[0], movies[2]},
		domain.CategoryTopRated: {movies[0], movies[3]},
	}
	favs := fakeFavorites{list: []domain.Movie{movies[1]}}
	svc := NewService(fakeCommands{err: domain.ErrCatalogOffline}, queries, favs, nil)

	got, local, err := svc.Search(context.Background(), "matrix")
	require.NoError(t, err)
	assert.True(t, local)
	require.Len(t, got, 3)
	assert.ElementsMatch(t, []int{1, 2, 4}, []int{got[0].ID, got[1].ID, got[2].ID})
}

func TestService_OtherErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(fakeCommands{err: boom}, fakeQueries{}, nil, nil)

	_, _, err := svc.Search(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}
