package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Reel/1.0"

	// PlaceholderPoster is shown for movies without artwork
	PlaceholderPoster = "https://via.placeholder.com/500x750?text=No+Image"
)

// Client implements domain.CatalogRepository for TMDB
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	language     string
	httpClient   *http.Client
	logger       *slog.Logger
}

// Options configures a Client
type Options struct {
	BaseURL      string
	ImageBaseURL string
	APIKey       string
	Language     string
	Timeout      time.Duration
}

var _ domain.CatalogRepository = (*Client)(nil)

// NewClient creates a new TMDB API client
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(opts.ImageBaseURL, "/"),
		apiKey:       opts.APIKey,
		language:     opts.Language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated GET and returns the body of a 200 response
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	if c.language != "" {
		query.Set("language", c.language)
	}
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("tmdb request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Error("tmdb request failed", "error", err, "path", path)
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized:
		return nil, domain.ErrAuthFailed
	case http.StatusNotFound:
		return nil, domain.ErrMovieNotFound
	}

	var apiErr ErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.StatusMessage != "" {
		c.logger.Error("tmdb request error", "status", resp.StatusCode, "message", apiErr.StatusMessage)
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, apiErr.StatusMessage)
	}
	c.logger.Error("tmdb request error", "status", resp.StatusCode, "bodyLen", len(body))
	return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
}

func (c *Client) getPage(ctx context.Context, path string, query url.Values) ([]domain.Movie, int, error) {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return nil, 0, err
	}

	var page PageResponse
	if err := json.Unmarshal(body, &page); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, 0, fmt.Errorf("failed to parse response: %w", err)
	}
	return MapMovies(page.Results), page.TotalPages, nil
}

// listingPath maps a category to its endpoint; unknown categories browse popular
func listingPath(category domain.Category, query url.Values) string {
	switch category {
	case domain.CategoryTopRated:
		return "/movie/top_rated"
	case domain.CategoryUpcoming:
		return "/movie/upcoming"
	case domain.CategoryNowPlaying:
		return "/movie/now_playing"
	default:
		query.Set("sort_by", "popularity.desc")
		return "/discover/movie"
	}
}

// ListMovies returns one page of a category listing
// Returns (movies, totalPages, error)
func (c *Client) ListMovies(ctx context.Context, category domain.Category, page int) ([]domain.Movie, int, error) {
	query := url.Values{}
	if page > 1 {
		query.Set("page", strconv.Itoa(page))
	}
	path := listingPath(category, query)
	return c.getPage(ctx, path, query)
}

// SearchMovies returns one page of title search results
func (c *Client) SearchMovies(ctx context.Context, q string, page int) ([]domain.Movie, int, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, 0, domain.ErrEmptyQuery
	}
	query := url.Values{}
	query.Set("query", q)
	if page > 1 {
		query.Set("page", strconv.Itoa(page))
	}
	return c.getPage(ctx, "/search/movie", query)
}

// GetMovie returns a single movie by id
func (c *Client) GetMovie(ctx context.Context, id int) (domain.Movie, error) {
	body, err := c.doRequest(ctx, "/movie/"+strconv.Itoa(id), nil)
	if err != nil {
		if errors.Is(err, domain.ErrMovieNotFound) {
			return domain.Movie{}, fmt.Errorf("movie %d: %w", id, err)
		}
		return domain.Movie{}, err
	}

	var details MovieDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return domain.Movie{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if details.ID == 0 {
		return domain.Movie{}, fmt.Errorf("movie %d: %w", id, domain.ErrMovieNotFound)
	}
	return MapDetails(details), nil
}

// ImageURL resolves a poster or backdrop path against the image base URL
func (c *Client) ImageURL(path string) string {
	return ImageURL(c.imageBaseURL, path)
}

// ImageURL resolves path against base; an empty path yields the placeholder
func ImageURL(base, path string) string {
	if path == "" {
		return PlaceholderPoster
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
