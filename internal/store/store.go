package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketStorage  = []byte("storage")
	bucketListings = []byte("listings")
)

// DBFileName is the database file created inside the storage directory.
const DBFileName = "reel.db"

// ErrClosed is returned by writes after Close.
var ErrClosed = errors.New("store is closed")

// listingEntry is the persisted form of a cached category listing.
type listingEntry struct {
	FetchedAt int64          `json:"fetched_at"`
	Movies    []domain.Movie `json:"movies"`
}

// DB implements domain.Store using BoltDB.
type DB struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache  map[string][]byte
	closed bool
}

// Open opens (or creates) the database in dir.
// An empty dir yields a memory-only store with no persistence.
func Open(dir string) (*DB, error) {
	if dir == "" {
		return &DB{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	dbPath := filepath.Join(dir, DBFileName)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketStorage, bucketListings} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db, cache: make(map[string][]byte)}, nil
}

// Path returns the database file path, or "" in memory-only mode.
func (s *DB) Path() string {
	if s.db == nil {
		return ""
	}
	return s.db.Path()
}

func (s *DB) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func cacheKey(bucket []byte, key string) string {
	return string(bucket) + ":" + key
}

func (s *DB) get(bucket []byte, key string) ([]byte, bool, error) {
	ck := cacheKey(bucket, key)

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, false, ErrClosed
	}
	if data, ok := s.cache[ck]; ok {
		s.mu.RUnlock()
		return data, true, nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			// Bolt memory is only valid inside the transaction
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if data == nil {
		return nil, false, nil
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[ck] = data
	s.mu.Unlock()

	return data, true, nil
}

func (s *DB) set(bucket []byte, key string, data []byte) error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Put([]byte(key), data)
		})
		if err != nil {
			return err
		}
	}

	// Cache only what is durable so a failed write never shadows disk
	stored := make([]byte, len(data))
	copy(stored, data)
	s.mu.Lock()
	s.cache[cacheKey(bucket, key)] = stored
	s.mu.Unlock()
	return nil
}

func (s *DB) delete(bucket []byte, key string) error {
	s.mu.Lock()
	delete(s.cache, cacheKey(bucket, key))
	closed := s.closed
	s.mu.Unlock()

	if s.db == nil || closed {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			return b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *DB) clearBucket(bucket []byte) error {
	s.mu.Lock()
	prefix := string(bucket) + ":"
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
		}
	}
	closed := s.closed
	s.mu.Unlock()

	if s.db == nil || closed {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucket)
		return err
	})
}

// === Key-value storage ===

func (s *DB) GetItem(key string) ([]byte, bool, error) {
	return s.get(bucketStorage, key)
}

func (s *DB) SetItem(key string, value []byte) error {
	return s.set(bucketStorage, key, value)
}

func (s *DB) RemoveItem(key string) error {
	return s.delete(bucketStorage, key)
}

// === Listings ===

func (s *DB) GetListing(category domain.Category) ([]domain.Movie, time.Time, bool) {
	data, ok, err := s.get(bucketListings, string(category))
	if err != nil || !ok {
		return nil, time.Time{}, false
	}
	var entry listingEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, time.Time{}, false
	}
	return entry.Movies, time.Unix(entry.FetchedAt, 0), true
}

func (s *DB) SaveListing(category domain.Category, movies []domain.Movie, fetchedAt time.Time) error {
	data, err := json.Marshal(listingEntry{FetchedAt: fetchedAt.Unix(), Movies: movies})
	if err != nil {
		return err
	}
	return s.set(bucketListings, string(category), data)
}

func (s *DB) InvalidateListing(category domain.Category) {
	s.delete(bucketListings, string(category))
}

// InvalidateAll wipes every cached listing. Favorites are left alone.
func (s *DB) InvalidateAll() {
	s.clearBucket(bucketListings)
}
