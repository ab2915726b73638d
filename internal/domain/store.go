package domain

import "time"

// KeyValueStore is the durable local key-value storage the favorites
// subsystem mirrors its list into. SetItem replaces the value atomically.
type KeyValueStore interface {
	GetItem(key string) (value []byte, found bool, err error)
	SetItem(key string, value []byte) error
	RemoveItem(key string) error
}

// ListingStore caches catalog listings per category (BoltDB + memory).
// TUI reads directly from it through CatalogQueries.
type ListingStore interface {
	GetListing(category Category) ([]Movie, time.Time, bool)
	SaveListing(category Category, movies []Movie, fetchedAt time.Time) error
	InvalidateListing(category Category)
	InvalidateAll()
}

// Store is everything the local database provides.
type Store interface {
	KeyValueStore
	ListingStore
	Close() error
}
