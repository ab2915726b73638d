package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/reel/internal/domain"
)

// Rank keeps the movies whose title contains the query's characters in
// order (case-insensitive) and sorts them closest first.
// Exact, prefix and substring hits beat plain subsequence hits.
func Rank(movies []domain.Movie, query string) []domain.Movie {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = m.Title
	}

	ranks := fuzzy.RankFindFold(query, titles)
	lowerQuery := strings.ToLower(query)

	type scored struct {
		index int
		score int
	}
	results := make([]scored, len(ranks))
	for i, r := range ranks {
		results[i] = scored{
			index: r.OriginalIndex,
			score: matchScore(strings.ToLower(r.Target), lowerQuery, r.Distance),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score < results[j].score
		}
		return results[i].index < results[j].index
	})

	out := make([]domain.Movie, len(results))
	for i, r := range results {
		out[i] = movies[r.index]
	}
	return out
}

// matchScore ranks a hit; lower is better
func matchScore(title, query string, distance int) int {
	switch {
	case title == query:
		return 0
	case strings.HasPrefix(title, query):
		return 10
	case strings.Contains(title, query):
		return 50
	default:
		return 100 + distance
	}
}
