package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Inspector displays details for the selected movie
type Inspector struct {
	movie    *domain.Movie
	favorite bool
	imageURL func(path string) string
	width    int
	height   int
}

// NewInspector creates a new inspector. imageURL resolves poster paths.
func NewInspector(imageURL func(path string) string) Inspector {
	if imageURL == nil {
		imageURL = func(path string) string { return path }
	}
	return Inspector{imageURL: imageURL}
}

// SetMovie sets the movie to display; nil clears the pane
func (i *Inspector) SetMovie(movie *domain.Movie, favorite bool) {
	i.movie = movie
	i.favorite = favorite
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
}

// HasMovie returns true if there is a movie to display
func (i Inspector) HasMovie() bool {
	return i.movie != nil
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder
	frameW, frameH := style.GetFrameSize()
	contentWidth := max(1, i.width-frameW-2)

	return style.
		Width(i.width - frameW).
		Height(i.height - frameH).
		Padding(0, 1).
		Render(i.renderContent(contentWidth))
}

func (i Inspector) renderContent(width int) string {
	if i.movie == nil {
		return styles.DimStyle.Render("Nothing selected")
	}
	m := i.movie

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(wrap(m.Title, width)))
	b.WriteString("\n")
	if m.OriginalTitle != "" && m.OriginalTitle != m.Title {
		b.WriteString(styles.SubtitleStyle.Render(wrap(m.OriginalTitle, width)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	rating := styles.RatingStyle.Render(fmt.Sprintf("%s %s", styles.StarChar, m.RatingLabel()))
	if m.VoteCount > 0 {
		rating += styles.DimStyle.Render(fmt.Sprintf(" (%d votes)", m.VoteCount))
	}
	b.WriteString(rating + "\n")

	released := "Unknown"
	if t, ok := m.ReleaseTime(); ok {
		released = t.Format("January 2, 2006")
	}
	b.WriteString(field("Released", released) + "\n")
	if m.OriginalLanguage != "" {
		b.WriteString(field("Language", m.OriginalLanguage) + "\n")
	}
	if i.favorite {
		b.WriteString(styles.FavoriteStyle.Render(styles.FavoriteChar+" In favorites") + "\n")
	} else {
		b.WriteString(styles.DimStyle.Render(styles.NotFavoriteChar+" Not in favorites") + "\n")
	}
	b.WriteString("\n")

	overview := m.Overview
	if overview == "" {
		overview = "No overview available."
	}
	b.WriteString(lipgloss.NewStyle().Foreground(styles.LightGray).Render(wrap(overview, width)))
	b.WriteString("\n\n")
	b.WriteString(styles.DimStyle.Render(wrap(i.imageURL(m.PosterPath), width)))

	return b.String()
}

func field(label, value string) string {
	return styles.DimStyle.Render(label+": ") + styles.SubtitleStyle.Render(value)
}

// wrap breaks text on spaces so no line exceeds width
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
