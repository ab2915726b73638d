package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// SearchBar is the catalog search prompt
type SearchBar struct {
	visible bool
	input   textinput.Model
}

// NewSearchBar creates a new search bar
func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Search movies (empty to clear)"
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "🔍 "
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchBar{input: ti}
}

// Show displays the bar seeded with the current query
func (b *SearchBar) Show(query string) {
	b.visible = true
	b.input.SetValue(query)
	b.input.CursorEnd()
	b.input.Focus()
}

// Hide dismisses the bar
func (b *SearchBar) Hide() {
	b.visible = false
	b.input.Blur()
}

// IsVisible returns whether the bar is shown
func (b SearchBar) IsVisible() bool {
	return b.visible
}

// Value returns the current input value
func (b SearchBar) Value() string {
	return b.input.Value()
}

// Update handles input events, returns (bar, cmd, submitted)
func (b SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd, bool) {
	if !b.visible {
		return b, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			b.Hide()
			return b, nil, true
		case "esc":
			b.Hide()
			return b, nil, false
		}
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return b, cmd, false
}

// View renders the search bar
func (b SearchBar) View() string {
	if !b.visible {
		return ""
	}

	const width = 48

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Search TMDB"),
		lipgloss.NewStyle().Width(width).Render(b.input.View()),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(content)
}
