package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Movie is a catalog record. Only ID is interpreted by the favorites core;
// every other field is carried verbatim. JSON names follow the TMDB wire
// format so persisted favorites stay compatible with catalog payloads.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"` // YYYY-MM-DD
	Popularity       float64 `json:"popularity,omitempty"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Adult            bool    `json:"adult,omitempty"`
}

// Year returns the release year, or 0 if the release date is missing or malformed.
func (m Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// ReleaseTime parses the release date. ok is false when the date is absent.
func (m Movie) ReleaseTime() (time.Time, bool) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(m.ReleaseDate))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// YearLabel returns the year for display, "-" when unknown.
func (m Movie) YearLabel() string {
	if y := m.Year(); y > 0 {
		return strconv.Itoa(y)
	}
	return "-"
}

// RatingLabel formats the vote average with one decimal (e.g. "7.4").
func (m Movie) RatingLabel() string {
	return fmt.Sprintf("%.1f", m.VoteAverage)
}

// ContainsMovie reports whether a movie with the given id is in movies.
func ContainsMovie(movies []Movie, id int) bool {
	for _, m := range movies {
		if m.ID == id {
			return true
		}
	}
	return false
}
