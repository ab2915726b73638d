package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/tui/components"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	bodyHeight := max(1, m.Height-ChromeHeight)

	var body string
	switch {
	case m.ShowHelp:
		body = m.placeCentered(styles.ModalStyle.Render(m.Help.FullHelpView(m.Keys.FullHelp())), bodyHeight)
	case m.CategoryModal.IsVisible():
		body = m.placeCentered(m.CategoryModal.View(), bodyHeight)
	case m.SearchBar.IsVisible():
		body = m.placeCentered(m.SearchBar.View(), bodyHeight)
	default:
		body = m.renderBody()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

func (m Model) placeCentered(modal string, height int) string {
	return lipgloss.Place(m.Width, height, lipgloss.Center, lipgloss.Center, modal)
}

func (m Model) renderBody() string {
	grid := m.Discover.View()
	if m.Screen == components.ScreenFavorites {
		grid = m.FavoritesGrid.View()
	}

	panes := []string{m.Drawer.View(), grid}
	if m.ShowInspector {
		panes = append(panes, m.Inspector.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

// renderHeader shows the app name, the screen, and loading progress
func (m Model) renderHeader() string {
	left := styles.AccentStyle.Bold(true).Render("reel") +
		styles.DimStyle.Render(" › ") +
		styles.TitleStyle.Render(m.Screen.String())

	var right string
	if m.Loading && m.Screen == components.ScreenDiscover {
		spinner := styles.AccentStyle.Render(styles.SpinnerFrames[m.SpinnerFrame%len(styles.SpinnerFrames)])
		right = spinner + " " + styles.DimStyle.Render("loading")
		if m.Progress.Total > 0 {
			percent := float64(m.Progress.Loaded) / float64(m.Progress.Total) * 100
			right += " " + styles.RenderProgressBar(percent, 10) +
				styles.DimStyle.Render(fmt.Sprintf(" %d/%d", m.Progress.Loaded, m.Progress.Total))
		}
	}

	gap := max(1, m.Width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

// renderFooter shows the status message when set, key help otherwise
func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(styles.Truncate(m.StatusMsg, m.Width))
		}
		return styles.SuccessStyle.Render(styles.Truncate(m.StatusMsg, m.Width))
	}
	return m.Help.ShortHelpView(m.Keys.ShortHelp())
}

func (m Model) discoverTitle() string {
	if m.Query != "" {
		return fmt.Sprintf("Search: %q", m.Query)
	}
	return m.Category.Label()
}

// favoritesTitle is the stats header above the favorites grid
func (m Model) favoritesTitle() string {
	stats := m.Favorites.Stats()
	if stats.Count == 0 {
		return "Your collection is empty"
	}
	noun := "movies"
	if stats.Count == 1 {
		noun = "movie"
	}
	return fmt.Sprintf("%s %d %s · avg %s %.1f · ~%s",
		styles.FavoriteChar, stats.Count, noun, styles.StarChar, stats.AverageRating,
		formatRuntime(stats.EstimatedRuntime))
}

// formatRuntime renders a duration as "5h 20m" or "45m"
func formatRuntime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %02dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
