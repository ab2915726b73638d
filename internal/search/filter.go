package search

import (
	"strings"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/sahilm/fuzzy"
)

// Match is a filtered movie with match metadata for highlighting
type Match struct {
	Movie          domain.Movie
	Index          int   // Position in the filtered slice
	MatchedIndexes []int // Character positions that matched
	Score          int   // Higher is better
}

// TitleIndex implements sahilm/fuzzy.Source over movie titles
type TitleIndex struct {
	movies      []domain.Movie
	lowerTitles []string // Pre-computed lowercase titles
}

// NewTitleIndex builds an index over movies
func NewTitleIndex(movies []domain.Movie) *TitleIndex {
	lower := make([]string, len(movies))
	for i, m := range movies {
		lower[i] = strings.ToLower(m.Title)
	}
	return &TitleIndex{movies: movies, lowerTitles: lower}
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *TitleIndex) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of movies (implements fuzzy.Source)
func (idx *TitleIndex) Len() int { return len(idx.movies) }

// Find returns matches best first
func (idx *TitleIndex) Find(query string) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	found := fuzzy.FindFrom(query, idx)
	matches := make([]Match, len(found))
	for i, f := range found {
		matches[i] = Match{
			Movie:          idx.movies[f.Index],
			Index:          f.Index,
			MatchedIndexes: f.MatchedIndexes,
			Score:          f.Score,
		}
	}
	return matches
}

// Filter is a one-shot Find over movies
func Filter(movies []domain.Movie, query string) []Match {
	return NewTitleIndex(movies).Find(query)
}

// FilterIndexes returns the positions of matching movies, best first.
// An empty query matches nothing and returns nil.
func FilterIndexes(movies []domain.Movie, query string) []int {
	matches := Filter(movies, query)
	if matches == nil {
		return nil
	}
	idx := make([]int, len(matches))
	for i, m := range matches {
		idx[i] = m.Index
	}
	return idx
}
