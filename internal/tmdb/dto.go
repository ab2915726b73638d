package tmdb

// PageResponse is the envelope of every paginated TMDB listing
type PageResponse struct {
	Page         int           `json:"page"`
	Results      []MovieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// MovieResult is a movie as it appears in listings and search results
type MovieResult struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	ReleaseDate      string  `json:"release_date"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	Adult            bool    `json:"adult"`
}

// MovieDetails is the /movie/{id} payload; genres come as objects there
type MovieDetails struct {
	MovieResult
	Genres []Genre `json:"genres"`
}

// Genre is a TMDB genre reference
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ErrorResponse is the body TMDB sends with non-200 statuses
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
