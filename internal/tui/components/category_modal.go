package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// CategoryModal is a small popup for choosing the catalog listing
type CategoryModal struct {
	visible bool
	options []domain.Category
	cursor  int
	active  domain.Category
}

// NewCategoryModal creates a new category modal
func NewCategoryModal() CategoryModal {
	return CategoryModal{options: domain.Categories}
}

// Show displays the modal with the cursor on the active category
func (m *CategoryModal) Show(active domain.Category) {
	m.visible = true
	m.active = active
	m.cursor = 0
	for i, c := range m.options {
		if c == active {
			m.cursor = i
			break
		}
	}
}

// Hide dismisses the modal
func (m *CategoryModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m CategoryModal) IsVisible() bool {
	return m.visible
}

// HandleKey processes a key press, returns (handled, selection).
// If selection is non-nil, the user confirmed a choice.
func (m *CategoryModal) HandleKey(key string) (handled bool, selection *domain.Category) {
	if !m.visible {
		return false, nil
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		chosen := m.options[m.cursor]
		m.visible = false
		return true, &chosen
	case "esc", "c", "q":
		m.visible = false
	}

	return true, nil // consume all keys when visible
}

// View renders the category modal
func (m CategoryModal) View() string {
	if !m.visible || len(m.options) == 0 {
		return ""
	}

	const width = 20
	var lines []string
	for i, opt := range m.options {
		prefix := "  "
		if opt == m.active {
			prefix = "✓ "
		}
		text := styles.Pad(prefix+opt.Label(), width)

		style := lipgloss.NewStyle().Foreground(styles.LightGray)
		switch {
		case i == m.cursor:
			style = lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight)
		case opt == m.active:
			style = lipgloss.NewStyle().Foreground(styles.Accent)
		}
		lines = append(lines, style.Render(text))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render("Browse") + "\n" + strings.Join(lines, "\n"))
}
