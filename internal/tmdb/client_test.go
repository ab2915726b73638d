package tmdb

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageBody = `{
  "page": 1,
  "total_pages": 3,
  "total_results": 60,
  "results": [
    {"id": 550, "title": "Fight Club", "poster_path": "/fc.jpg", "vote_average": 8.4, "release_date": "1999-10-15", "genre_ids": [18]},
    {"id": 0, "title": "broken"},
    {"id": 13, "title": "Forrest Gump", "poster_path": null, "vote_average": 8.5}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{
		BaseURL:      srv.URL + "/3/",
		ImageBaseURL: "https://img.example/t/p/w500/",
		APIKey:       "secret",
		Language:     "en-US",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestListMovies_Endpoints(t *testing.T) {
	tests := []struct {
		category domain.Category
		path     string
		sortBy   string
	}{
		{domain.CategoryPopular, "/3/discover/movie", "popularity.desc"},
		{domain.CategoryTopRated, "/3/movie/top_rated", ""},
		{domain.CategoryUpcoming, "/3/movie/upcoming", ""},
		{domain.CategoryNowPlaying, "/3/movie/now_playing", ""},
		{domain.Category("bogus"), "/3/discover/movie", "popularity.desc"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			var gotPath, gotSort, gotKey, gotLang, gotPage string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotSort = r.URL.Query().Get("sort_by")
				gotKey = r.URL.Query().Get("api_key")
				gotLang = r.URL.Query().Get("language")
				gotPage = r.URL.Query().Get("page")
				io.WriteString(w, pageBody)
			})

			movies, totalPages, err := c.ListMovies(context.Background(), tt.category, 1)
			require.NoError(t, err)

			assert.Equal(t, tt.path, gotPath)
			assert.Equal(t, tt.sortBy, gotSort)
			assert.Equal(t, "secret", gotKey)
			assert.Equal(t, "en-US", gotLang)
			assert.Empty(t, gotPage)
			assert.Equal(t, 3, totalPages)
			require.Len(t, movies, 2)
			assert.Equal(t, 550, movies[0].ID)
			assert.Equal(t, "/fc.jpg", movies[0].PosterPath)
			assert.Equal(t, 1999, movies[0].Year())
			assert.Equal(t, "", movies[1].PosterPath)
		})
	}
}

func TestListMovies_PageParameter(t *testing.T) {
	var gotPage string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		io.WriteString(w, pageBody)
	})

	_, _, err := c.ListMovies(context.Background(), domain.CategoryTopRated, 2)
	require.NoError(t, err)
	assert.Equal(t, "2", gotPage)
}

func TestSearchMovies(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		io.WriteString(w, pageBody)
	})

	movies, _, err := c.SearchMovies(context.Background(), "  fight club ", 1)
	require.NoError(t, err)
	assert.Equal(t, "/3/search/movie", gotPath)
	assert.Equal(t, "fight club", gotQuery)
	assert.Len(t, movies, 2)

	_, _, err = c.SearchMovies(context.Background(), "   ", 1)
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
}

func TestGetMovie(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/3/movie/550":
			io.WriteString(w, `{"id":550,"title":"Fight Club","genres":[{"id":18,"name":"Drama"}],"vote_average":8.4}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"status_code":34,"status_message":"The resource you requested could not be found."}`)
		}
	})

	movie, err := c.GetMovie(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", movie.Title)
	assert.Equal(t, []int{18}, movie.GenreIDs)

	_, err = c.GetMovie(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)
}

func TestDoRequest_ErrorMapping(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		_, _, err := c.ListMovies(context.Background(), domain.CategoryPopular, 1)
		assert.ErrorIs(t, err, domain.ErrAuthFailed)
	})

	t.Run("server error carries message", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			io.WriteString(w, `{"status_code":43,"status_message":"Service offline."}`)
		})
		_, _, err := c.ListMovies(context.Background(), domain.CategoryPopular, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Service offline.")
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"results": [`)
		})
		_, _, err := c.ListMovies(context.Background(), domain.CategoryPopular, 1)
		assert.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := NewClient(Options{BaseURL: url, APIKey: "k"}, nil)
		_, _, err := c.ListMovies(context.Background(), domain.CategoryPopular, 1)
		assert.ErrorIs(t, err, domain.ErrCatalogOffline)
	})
}

func TestImageURL(t *testing.T) {
	c := NewClient(Options{ImageBaseURL: "https://image.tmdb.org/t/p/w500/"}, nil)

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", c.ImageURL("/abc.jpg"))
	assert.Equal(t, PlaceholderPoster, c.ImageURL(""))
}
