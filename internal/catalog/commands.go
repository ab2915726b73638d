package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

const (
	defaultPages    = 1
	defaultCacheTTL = 30 * time.Minute
)

// Options tunes how listings are fetched and cached.
type Options struct {
	Pages    int
	CacheTTL time.Duration
}

// Commands provides asynchronous operations that hit network.
// Implements domain.CatalogCommands.
type Commands struct {
	repo   domain.CatalogRepository
	store  domain.ListingStore
	pages  int
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

var _ domain.CatalogCommands = (*Commands)(nil)

// NewCommands creates a new Commands instance.
func NewCommands(repo domain.CatalogRepository, store domain.ListingStore, opts Options, logger *slog.Logger) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Pages <= 0 {
		opts.Pages = defaultPages
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	return &Commands{
		repo:   repo,
		store:  store,
		pages:  opts.Pages,
		ttl:    opts.CacheTTL,
		now:    time.Now,
		logger: logger,
	}
}

func (c *Commands) FetchListing(
	ctx context.Context,
	category domain.Category,
	onProgress domain.ProgressFunc,
) (domain.ListingResult, error) {
	// 1. Freshness check
	if movies, fetchedAt, ok := c.store.GetListing(category); ok && c.now().Sub(fetchedAt) < c.ttl {
		c.logger.Debug("cache fresh", "category", category, "count", len(movies))
		return domain.ListingResult{Category: category, Movies: movies, FromCache: true}, nil
	}

	// 2. Fetch
	c.logger.Debug("cache stale, fetching", "category", category)
	return c.fetch(ctx, category, onProgress)
}

func (c *Commands) RefreshListing(
	ctx context.Context,
	category domain.Category,
	onProgress domain.ProgressFunc,
) (domain.ListingResult, error) {
	c.store.InvalidateListing(category)
	c.logger.Info("invalidated listing cache", "category", category)
	return c.fetch(ctx, category, onProgress)
}

func (c *Commands) Search(ctx context.Context, query string) ([]domain.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	movies, _, err := c.repo.SearchMovies(ctx, query, 1)
	if err != nil {
		c.logger.Error("failed to search catalog", "error", err, "query", query)
		return nil, err
	}
	c.logger.Debug("searched catalog", "query", query, "count", len(movies))
	return movies, nil
}

func (c *Commands) LookupMovie(ctx context.Context, id int) (domain.Movie, error) {
	movie, err := c.repo.GetMovie(ctx, id)
	if err != nil {
		c.logger.Error("failed to look up movie", "error", err, "movieID", id)
		return domain.Movie{}, err
	}
	return movie, nil
}

// InvalidateAll drops every cached listing.
func (c *Commands) InvalidateAll() {
	c.store.InvalidateAll()
	c.logger.Info("invalidated all cache")
}

// --- Private helpers ---

func (c *Commands) fetch(
	ctx context.Context,
	category domain.Category,
	onProgress domain.ProgressFunc,
) (domain.ListingResult, error) {
	movies, err := fetchPages(ctx,
		func(ctx context.Context, page int) ([]domain.Movie, int, error) {
			return c.repo.ListMovies(ctx, category, page)
		},
		c.pages,
		onProgress,
	)
	if err != nil {
		c.logger.Error("failed to fetch listing", "error", err, "category", category)
		return domain.ListingResult{}, err
	}
	movies = dedupe(movies)

	if err := c.store.SaveListing(category, movies, c.now()); err != nil {
		c.logger.Error("failed to save listing", "error", err, "category", category)
	}
	c.logger.Debug("fetched listing", "category", category, "count", len(movies))
	return domain.ListingResult{Category: category, Movies: movies}, nil
}

// fetchPages is a generic pagination helper. It stops at maxPages or at the
// last page the server reports, whichever comes first.
func fetchPages[T any](
	ctx context.Context,
	fetch func(ctx context.Context, page int) ([]T, int, error),
	maxPages int,
	onProgress domain.ProgressFunc,
) ([]T, error) {
	if maxPages <= 0 {
		maxPages = defaultPages
	}

	var all []T
	for page := 1; page <= maxPages; page++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		items, totalPages, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		last := min(maxPages, totalPages)
		if onProgress != nil {
			onProgress(page, max(last, page))
		}
		if page >= totalPages || len(items) == 0 {
			break
		}
	}
	return all, nil
}

// dedupe drops repeated ids; TMDB pages shift while being paged through.
func dedupe(movies []domain.Movie) []domain.Movie {
	seen := make(map[int]struct{}, len(movies))
	out := movies[:0]
	for _, m := range movies {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}
