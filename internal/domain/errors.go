package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrLoadFailure indicates the favorites snapshot could not be read or decoded
	ErrLoadFailure = errors.New("favorites snapshot unreadable")

	// ErrPersistFailure indicates writing the favorites snapshot failed
	ErrPersistFailure = errors.New("favorites snapshot write failed")

	// ErrMovieNotFound indicates the requested movie does not exist
	ErrMovieNotFound = errors.New("movie not found")

	// ErrCatalogOffline indicates the catalog API is unreachable
	ErrCatalogOffline = errors.New("catalog API is unreachable")

	// ErrAuthFailed indicates the API key was rejected
	ErrAuthFailed = errors.New("catalog API key is invalid")

	// ErrEmptyQuery indicates a search was requested without a query
	ErrEmptyQuery = errors.New("search query is empty")
)
