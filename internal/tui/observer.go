package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
)

// ChannelObserver adapts domain.FavoritesObserver to a channel for Bubble Tea.
// The channel holds at most one pending list: a newer list replaces an
// unread older one, so the latest state is never dropped.
type ChannelObserver struct {
	ch chan []domain.Movie
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver() *ChannelObserver {
	return &ChannelObserver{ch: make(chan []domain.Movie, 1)}
}

// OnFavoritesChanged publishes the list without blocking.
func (o *ChannelObserver) OnFavoritesChanged(favorites []domain.Movie) {
	for {
		select {
		case o.ch <- favorites:
			return
		default:
		}
		// Full: discard the stale list and retry
		select {
		case <-o.ch:
		default:
		}
	}
}

// Wait returns a command that blocks until the next change.
func (o *ChannelObserver) Wait() tea.Cmd {
	return func() tea.Msg {
		return FavoritesChangedMsg{Favorites: <-o.ch}
	}
}

// progressRelay forwards page fetch progress to the TUI, dropping updates
// when the UI is behind.
type progressRelay struct {
	ch chan ListingProgressMsg
}

func newProgressRelay() *progressRelay {
	return &progressRelay{ch: make(chan ListingProgressMsg, 8)}
}

func (p *progressRelay) reporter(category domain.Category) domain.ProgressFunc {
	return func(loaded, total int) {
		select {
		case p.ch <- ListingProgressMsg{Category: category, Loaded: loaded, Total: total}:
		default: // Non-blocking if channel full
		}
	}
}

func (p *progressRelay) Wait() tea.Cmd {
	return func() tea.Msg {
		return <-p.ch
	}
}
