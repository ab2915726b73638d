package tmdb

import (
	"strings"

	"github.com/mmcdole/reel/internal/domain"
)

// MapMovie converts a listing result to a domain movie
func MapMovie(r MovieResult) domain.Movie {
	return domain.Movie{
		ID:               r.ID,
		Title:            strings.TrimSpace(r.Title),
		OriginalTitle:    r.OriginalTitle,
		Overview:         r.Overview,
		PosterPath:       deref(r.PosterPath),
		BackdropPath:     deref(r.BackdropPath),
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		ReleaseDate:      r.ReleaseDate,
		Popularity:       r.Popularity,
		GenreIDs:         r.GenreIDs,
		OriginalLanguage: r.OriginalLanguage,
		Adult:            r.Adult,
	}
}

// MapMovies converts listing results, skipping entries without an id
func MapMovies(results []MovieResult) []domain.Movie {
	movies := make([]domain.Movie, 0, len(results))
	for _, r := range results {
		if r.ID == 0 {
			continue
		}
		movies = append(movies, MapMovie(r))
	}
	return movies
}

// MapDetails converts a details payload, flattening genre objects to ids
func MapDetails(d MovieDetails) domain.Movie {
	m := MapMovie(d.MovieResult)
	if len(m.GenreIDs) == 0 && len(d.Genres) > 0 {
		m.GenreIDs = make([]int, len(d.Genres))
		for i, g := range d.Genres {
			m.GenreIDs[i] = g.ID
		}
	}
	return m
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
