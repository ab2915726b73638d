package tui

import "github.com/mmcdole/reel/internal/domain"

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ListingLoadedMsg signals that a category listing is ready
type ListingLoadedMsg struct {
	Result domain.ListingResult
}

// ListingProgressMsg reports page fetch progress for a listing
type ListingProgressMsg struct {
	Category domain.Category
	Loaded   int
	Total    int
}

// SearchResultsMsg signals that catalog search results are ready
type SearchResultsMsg struct {
	Query   string
	Results []domain.Movie
	Local   bool // answered from cached data because the catalog was offline
}

// FavoritesChangedMsg signals that the favorites list changed.
// The model re-reads the facade rather than trusting the payload order.
type FavoritesChangedMsg struct {
	Favorites []domain.Movie
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct {
	Seq int
}

// TickMsg is a general tick message for animations
type TickMsg struct{}
