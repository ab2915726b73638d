package favorites

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

// Store owns the authoritative favorites list and keeps the durable
// snapshot eventually consistent with it.
//
// The list is copy-on-write: every mutation installs a fresh slice, so a
// slice handed to the writer or an observer is never modified afterwards.
type Store struct {
	kv     domain.KeyValueStore
	key    string
	logger *slog.Logger
	writer *writer

	mu        sync.RWMutex
	items     []domain.Movie
	observers map[int]domain.FavoritesObserver
	nextObs   int
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key (default "@favorites").
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for load/persist diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates an empty store backed by kv and starts its writer.
// Call Initialize to load the persisted list and Close to flush on exit.
func NewStore(kv domain.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		key:       DefaultKey,
		logger:    slog.Default(),
		items:     []domain.Movie{},
		observers: make(map[int]domain.FavoritesObserver),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.writer = newWriter(kv, s.key, s.logger)
	return s
}

// Initialize replaces the in-memory list with the persisted snapshot.
// A missing snapshot leaves the list empty. Read and decode failures are
// logged and treated as a missing snapshot; Initialize never fails.
func (s *Store) Initialize(ctx context.Context) {
	loaded, err := s.load(ctx)
	if err != nil {
		s.logger.Error("failed to load favorites", "error", err, "key", s.key)
		return
	}
	if loaded == nil {
		s.logger.Debug("no favorites snapshot", "key", s.key)
		return
	}

	s.mu.Lock()
	s.items = loaded
	observers := s.observerList()
	s.mu.Unlock()

	s.logger.Info("loaded favorites", "count", len(loaded))
	notify(observers, loaded)
}

// load returns nil, nil when no snapshot exists.
func (s *Store) load(ctx context.Context) (movies []domain.Movie, err error) {
	defer func() {
		// A misbehaving storage backend must not take startup down
		if r := recover(); r != nil {
			movies, err = nil, fmt.Errorf("%w: %v", domain.ErrLoadFailure, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLoadFailure, err)
	}

	data, found, err := s.kv.GetItem(s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLoadFailure, err)
	}
	if !found {
		return nil, nil
	}

	movies, err = Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLoadFailure, err)
	}
	return movies, nil
}

// Toggle removes every entry with movie.ID if one exists, otherwise
// appends movie. The new list is visible to Snapshot before Toggle
// returns; the durable write happens asynchronously and its failure is
// only logged.
func (s *Store) Toggle(movie domain.Movie) {
	s.mu.Lock()
	var updated []domain.Movie
	if domain.ContainsMovie(s.items, movie.ID) {
		updated = make([]domain.Movie, 0, len(s.items))
		for _, m := range s.items {
			if m.ID != movie.ID {
				updated = append(updated, m)
			}
		}
	} else {
		updated = make([]domain.Movie, len(s.items), len(s.items)+1)
		copy(updated, s.items)
		updated = append(updated, movie)
	}
	s.items = updated

	// Scheduled under the lock so writes are queued in mutation order
	if !s.writer.schedule(updated) {
		s.logger.Warn("favorites store closed, change not persisted", "movieID", movie.ID)
	}
	observers := s.observerList()
	s.mu.Unlock()

	notify(observers, updated)
}

// Snapshot returns a copy of the current list in insertion order.
func (s *Store) Snapshot() []domain.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Contains reports whether a movie with id is in the list.
func (s *Store) Contains(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ContainsMovie(s.items, id)
}

// Subscribe registers observer for whole-list change notifications.
func (s *Store) Subscribe(observer domain.FavoritesObserver) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = observer
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

// Close flushes the pending write and stops the writer. Later toggles
// still update memory but are not persisted.
func (s *Store) Close() {
	s.writer.close()
}

// observerList must be called with s.mu held.
func (s *Store) observerList() []domain.FavoritesObserver {
	if len(s.observers) == 0 {
		return nil
	}
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	list := make([]domain.FavoritesObserver, len(ids))
	for i, id := range ids {
		list[i] = s.observers[id]
	}
	return list
}

func notify(observers []domain.FavoritesObserver, favorites []domain.Movie) {
	for _, o := range observers {
		o.OnFavoritesChanged(slices.Clone(favorites))
	}
}
