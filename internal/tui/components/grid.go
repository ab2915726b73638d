package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/search"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// ViewMode selects how movies are laid out
type ViewMode int

const (
	ViewGrid ViewMode = iota
	ViewList
)

// String returns the config name of the mode
func (v ViewMode) String() string {
	if v == ViewList {
		return "list"
	}
	return "grid"
}

// ParseViewMode maps a config value to a ViewMode, defaulting to grid
func ParseViewMode(s string) ViewMode {
	if strings.EqualFold(s, "list") {
		return ViewList
	}
	return ViewGrid
}

// Layout constants for grid
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Padding inside the border (Padding(0,1) = 1 left + 1 right)
	HorizontalPadding = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// Title line at top of content area
	TitleLines = 1

	// A grid cell is two text lines inside a rounded border
	CellHeight = 4

	MinCellWidth   = 16
	DefaultColumns = 4
)

// MovieGrid shows movies as poster-style cells or as a list
type MovieGrid struct {
	movies    []domain.Movie
	favorites map[int]bool

	mode    ViewMode
	columns int

	// Selection (offset counts rows, not movies)
	cursor int
	offset int

	// Dimensions
	width   int
	height  int
	focused bool

	title     string
	emptyText string

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into movies
}

// NewMovieGrid creates a new grid component
func NewMovieGrid() MovieGrid {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return MovieGrid{
		filterInput: ti,
		columns:     DefaultColumns,
		favorites:   map[int]bool{},
		emptyText:   "No movies",
	}
}

// SetMovies replaces the content and resets cursor and filter
func (g *MovieGrid) SetMovies(movies []domain.Movie) {
	g.movies = movies
	g.cursor = 0
	g.offset = 0
	g.clearFilter()
}

// ReplaceMovies swaps the content in place: the filter is re-applied and the
// cursor stays where it was, clamped to the new length.
func (g *MovieGrid) ReplaceMovies(movies []domain.Movie) {
	g.movies = movies
	if g.filterActive && g.filterQuery != "" {
		g.filteredIdx = search.FilterIndexes(g.movies, g.filterQuery)
	}
	g.SetCursor(g.cursor)
}

// Movies returns the unfiltered content
func (g MovieGrid) Movies() []domain.Movie {
	return g.movies
}

// SetFavorites updates which movies carry the favorite marker
func (g *MovieGrid) SetFavorites(favorites []domain.Movie) {
	g.favorites = make(map[int]bool, len(favorites))
	for _, m := range favorites {
		g.favorites[m.ID] = true
	}
}

// SetMode switches between grid and list layouts
func (g *MovieGrid) SetMode(mode ViewMode) {
	g.mode = mode
	g.ensureVisible()
}

// Mode returns the current layout
func (g MovieGrid) Mode() ViewMode {
	return g.mode
}

// ToggleMode flips between grid and list layouts
func (g *MovieGrid) ToggleMode() {
	if g.mode == ViewGrid {
		g.SetMode(ViewList)
	} else {
		g.SetMode(ViewGrid)
	}
}

// SetColumns sets the preferred number of grid columns
func (g *MovieGrid) SetColumns(n int) {
	if n < 1 {
		n = DefaultColumns
	}
	g.columns = n
	g.ensureVisible()
}

// SetSize updates the component dimensions
func (g *MovieGrid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.ensureVisible()
}

// SetTitle sets the line displayed above the content
func (g *MovieGrid) SetTitle(title string) {
	g.title = title
}

// SetEmptyText sets the message shown when there is nothing to display
func (g *MovieGrid) SetEmptyText(text string) {
	g.emptyText = text
}

// SetFocused sets the focus state
func (g *MovieGrid) SetFocused(focused bool) {
	g.focused = focused
}

// IsFocused returns the focus state
func (g MovieGrid) IsFocused() bool {
	return g.focused
}

// Cursor returns the current cursor position
func (g MovieGrid) Cursor() int {
	return g.cursor
}

// SetCursor sets the cursor position
func (g *MovieGrid) SetCursor(pos int) {
	last := g.itemCount() - 1
	if last < 0 {
		g.cursor = 0
		g.offset = 0
		return
	}
	g.cursor = max(0, min(pos, last))
	g.ensureVisible()
}

// Selected returns the movie under the cursor
func (g MovieGrid) Selected() (domain.Movie, bool) {
	count := g.itemCount()
	if count == 0 || g.cursor >= count {
		return domain.Movie{}, false
	}
	return g.movies[g.mapIndex(g.cursor)], true
}

// IsEmpty returns true if there are no visible movies
func (g MovieGrid) IsEmpty() bool {
	return g.itemCount() == 0
}

// perRow returns how many movies share one row
func (g MovieGrid) perRow() int {
	if g.mode == ViewList {
		return 1
	}
	inner := g.innerWidth()
	fit := max(1, inner/MinCellWidth)
	return max(1, min(g.columns, fit))
}

// rowHeight returns the rendered height of one row
func (g MovieGrid) rowHeight() int {
	if g.mode == ViewList {
		return 1
	}
	return CellHeight
}

func (g MovieGrid) innerWidth() int {
	return g.width - BorderWidth - HorizontalPadding
}

// visibleRows returns how many rows fit between title, indicators and filter bar
func (g MovieGrid) visibleRows() int {
	avail := g.height - BorderHeight - ScrollIndicatorLines - TitleLines
	if g.filterActive {
		avail--
	}
	return max(1, avail/g.rowHeight())
}

// ensureVisible keeps the cursor row on screen
func (g *MovieGrid) ensureVisible() {
	row := g.cursor / g.perRow()
	rows := g.visibleRows()
	if row < g.offset {
		g.offset = row
	}
	if row >= g.offset+rows {
		g.offset = row - rows + 1
	}
	if g.offset < 0 {
		g.offset = 0
	}
}

// ToggleFilter activates the filter input
func (g *MovieGrid) ToggleFilter() {
	g.filterActive = true
	g.filterInput.Focus()
	g.ensureVisible()
}

// IsFiltering returns true if filter mode is active (showing filtered results)
func (g MovieGrid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused (typing mode)
func (g MovieGrid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all movies
func (g *MovieGrid) ClearFilter() {
	g.clearFilter()
}

func (g *MovieGrid) clearFilter() {
	g.filterActive = false
	g.filterQuery = ""
	g.filteredIdx = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.ensureVisible()
}

// applyFilter narrows the movies to fuzzy title matches
func (g *MovieGrid) applyFilter() {
	g.filterQuery = g.filterInput.Value()
	g.filteredIdx = search.FilterIndexes(g.movies, g.filterQuery)

	// Reset cursor to first match
	g.cursor = 0
	g.offset = 0
}

// itemCount returns the number of movies (accounting for filter)
func (g MovieGrid) itemCount() int {
	if g.filteredIdx != nil {
		return len(g.filteredIdx)
	}
	return len(g.movies)
}

// mapIndex maps a cursor position to the actual index in the data
func (g MovieGrid) mapIndex(i int) int {
	if g.filteredIdx != nil && i < len(g.filteredIdx) {
		return g.filteredIdx[i]
	}
	return i
}

// Update handles messages
func (g MovieGrid) Update(msg tea.Msg) (MovieGrid, tea.Cmd) {
	if !g.focused {
		return g, nil
	}

	// Typing into the filter
	if g.filterActive && g.filterInput.Focused() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "esc":
				g.clearFilter()
				return g, nil
			case "enter":
				// Accept filter, blur input to allow navigation
				g.filterInput.Blur()
				return g, nil
			case "backspace":
				if g.filterInput.Value() == "" {
					g.clearFilter()
					return g, nil
				}
			}
		}

		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		g.applyFilter()
		return g, cmd
	}

	// Filter results are shown but the input is blurred
	if g.filterActive {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "esc":
				g.clearFilter()
				return g, nil
			case "/":
				g.filterInput.Focus()
				return g, nil
			}
		}
	}

	count := g.itemCount()
	if count == 0 {
		return g, nil
	}

	step := g.perRow()
	page := max(1, g.visibleRows()/2) * step

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j", "down":
			if g.cursor+step < count {
				g.cursor += step
			} else if g.cursor/step < (count-1)/step {
				// Partial last row
				g.cursor = count - 1
			}
		case "k", "up":
			if g.cursor-step >= 0 {
				g.cursor -= step
			}
		case "l", "right":
			if g.mode == ViewGrid && g.cursor < count-1 {
				g.cursor++
			}
		case "h", "left":
			if g.mode == ViewGrid && g.cursor > 0 {
				g.cursor--
			}
		case "g", "home":
			g.cursor = 0
		case "G", "end":
			g.cursor = count - 1
		case "ctrl+d", "pgdown":
			g.cursor = min(g.cursor+page, count-1)
		case "ctrl+u", "pgup":
			g.cursor = max(g.cursor-page, 0)
		}
		g.ensureVisible()
	}

	return g, nil
}

// View renders the component
func (g MovieGrid) View() string {
	style := styles.InactiveBorder
	if g.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()

	return style.
		Width(g.width - frameW).
		Height(g.height - frameH).
		Padding(0, 1).
		Render(g.renderContent())
}

func (g MovieGrid) renderContent() string {
	width := g.innerWidth()

	// Title is always first line (even if empty, for consistent layout)
	titleLine := " "
	if g.title != "" {
		titleLine = styles.AccentStyle.Render(styles.Truncate(g.title, width))
	}

	count := g.itemCount()
	if count == 0 {
		empty := g.emptyText
		if g.filterActive && g.filterQuery != "" {
			empty = "No matches"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(empty) + "\n "
		if g.filterActive {
			content += "\n" + g.renderFilterBar()
		}
		return content
	}

	perRow := g.perRow()
	totalRows := (count + perRow - 1) / perRow
	firstRow := g.offset
	lastRow := min(totalRows, firstRow+g.visibleRows())

	var rows []string
	for r := firstRow; r < lastRow; r++ {
		start := r * perRow
		end := min(start+perRow, count)
		if g.mode == ViewList {
			rows = append(rows, g.renderListRow(start, width))
			continue
		}
		cells := make([]string, 0, end-start)
		cellWidth := width / perRow
		for i := start; i < end; i++ {
			cells = append(cells, g.renderCell(i, cellWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	// ALWAYS reserve space for scroll indicators to prevent layout shifts
	header := " "
	if firstRow > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if lastRow < totalRows {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(rows, "\n") + "\n" + footer
	if g.filterActive {
		content += "\n" + g.renderFilterBar()
	}
	return content
}

// renderCell renders one bordered grid cell
func (g MovieGrid) renderCell(pos, cellWidth int) string {
	movie := g.movies[g.mapIndex(pos)]
	selected := pos == g.cursor

	style := styles.GridCellStyle
	if selected {
		style = styles.GridCellSelectedStyle
	}
	frameW, _ := style.GetFrameSize()
	inner := max(1, cellWidth-frameW)

	titleStyle := lipgloss.NewStyle().Foreground(styles.LightGray)
	if selected {
		titleStyle = lipgloss.NewStyle().Foreground(styles.White).Bold(true)
	}
	title := titleStyle.Render(styles.Truncate(movie.Title, inner))

	meta := styles.RatingStyle.Render(styles.StarChar+" "+movie.RatingLabel()) +
		styles.DimStyle.Render(" · "+movie.YearLabel())
	if g.favorites[movie.ID] {
		meta += " " + styles.FavoriteMark
	}

	return style.Width(cellWidth - 2).Render(title + "\n" + meta)
}

// renderListRow renders one movie as a single list line
func (g MovieGrid) renderListRow(pos, width int) string {
	movie := g.movies[g.mapIndex(pos)]
	selected := pos == g.cursor

	marker := " "
	heart := styles.Heart
	if g.favorites[movie.ID] {
		marker = styles.FavoriteChar
	}

	gold := styles.Gold
	dimGray := styles.DimGray
	rating := fmt.Sprintf(" %s %s", styles.StarChar, movie.RatingLabel())
	year := " " + movie.YearLabel()
	title := styles.Truncate(movie.Title, width-lipgloss.Width(rating+year)-6)

	parts := []styles.RowPart{
		{Text: marker, Foreground: &heart},
		{Text: " " + title, Foreground: nil},
		{Text: year, Foreground: &dimGray},
		{Text: rating, Foreground: &gold},
	}
	return styles.RenderListRow(parts, selected, width)
}

// renderFilterBar renders the filter input bar
func (g MovieGrid) renderFilterBar() string {
	input := g.filterInput.View()
	if g.filterQuery == "" {
		return input
	}
	return input + styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", g.itemCount(), len(g.movies)))
}
