package search

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmcdole/reel/internal/domain"
)

// Service searches the catalog, falling back to locally known movies
// when the catalog cannot be reached.
type Service struct {
	commands  domain.CatalogCommands
	queries   domain.CatalogQueries
	favorites domain.FavoritesAccess
	logger    *slog.Logger
}

// NewService creates a new search service
func NewService(
	commands domain.CatalogCommands,
	queries domain.CatalogQueries,
	favorites domain.FavoritesAccess,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		commands:  commands,
		queries:   queries,
		favorites: favorites,
		logger:    logger,
	}
}

// Search asks the catalog first. When it is offline the query is answered
// from cached listings and favorites instead, and local is true.
func (s *Service) Search(ctx context.Context, query string) (movies []domain.Movie, local bool, err error) {
	movies, err = s.commands.Search(ctx, query)
	if err == nil {
		return movies, false, nil
	}
	if !errors.Is(err, domain.ErrCatalogOffline) {
		return nil, false, err
	}

	s.logger.Warn("catalog search failed, falling back to local", "error", err)
	return s.SearchLocal(query), true, nil
}

// SearchLocal fuzzy-matches the query against every cached listing and
// the favorites list. Each movie appears once.
func (s *Service) SearchLocal(query string) []domain.Movie {
	matches := Filter(s.gather(), query)
	out := make([]domain.Movie, len(matches))
	for i, m := range matches {
		out[i] = m.Movie
	}
	s.logger.Debug("local search complete", "query", query, "results", len(out))
	return out
}

func (s *Service) gather() []domain.Movie {
	seen := make(map[int]struct{})
	var movies []domain.Movie
	add := func(list []domain.Movie) {
		for _, m := range list {
			if _, ok := seen[m.ID]; ok {
				continue
			}
			seen[m.ID] = struct{}{}
			movies = append(movies, m)
		}
	}

	if s.favorites != nil {
		add(s.favorites.CurrentFavorites())
	}
	for _, category := range domain.Categories {
		if cached, ok := s.queries.CachedListing(category); ok {
			add(cached)
		}
	}
	return movies
}
