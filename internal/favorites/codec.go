package favorites

import (
	"encoding/json"

	"github.com/mmcdole/reel/internal/domain"
)

// DefaultKey is the storage key the snapshot lives under.
const DefaultKey = "@favorites"

// Encode serializes the whole list. A nil list encodes as "[]".
func Encode(movies []domain.Movie) ([]byte, error) {
	if movies == nil {
		movies = []domain.Movie{}
	}
	return json.Marshal(movies)
}

// Decode parses a snapshot. The result has unique ids; later duplicates
// of an id are dropped.
func Decode(data []byte) ([]domain.Movie, error) {
	var movies []domain.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, err
	}
	return dedupe(movies), nil
}

func dedupe(movies []domain.Movie) []domain.Movie {
	seen := make(map[int]bool, len(movies))
	out := make([]domain.Movie, 0, len(movies))
	for _, m := range movies {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}
