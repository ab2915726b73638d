package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/search"
)

// Command factories for async operations

const (
	listingTimeout = 60 * time.Second
	searchTimeout  = 30 * time.Second
	statusTimeout  = 3 * time.Second
)

// FetchListingCmd loads a category listing, from cache when fresh
func FetchListingCmd(cmds domain.CatalogCommands, category domain.Category, onProgress domain.ProgressFunc) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listingTimeout)
		defer cancel()

		result, err := cmds.FetchListing(ctx, category, onProgress)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading " + category.Label()}
		}
		return ListingLoadedMsg{Result: result}
	}
}

// RefreshListingCmd reloads a category listing from the network
func RefreshListingCmd(cmds domain.CatalogCommands, category domain.Category, onProgress domain.ProgressFunc) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listingTimeout)
		defer cancel()

		result, err := cmds.RefreshListing(ctx, category, onProgress)
		if err != nil {
			return ErrMsg{Err: err, Context: "refreshing " + category.Label()}
		}
		return ListingLoadedMsg{Result: result}
	}
}

// SearchCmd runs a catalog search
func SearchCmd(svc *search.Service, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		results, local, err := svc.Search(ctx, query)
		if err != nil {
			return ErrMsg{Err: err, Context: "searching"}
		}
		return SearchResultsMsg{Query: query, Results: results, Local: local}
	}
}

// ClearStatusCmd clears the status line after a delay
func ClearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}

// TickCmd drives the loading spinner
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}
