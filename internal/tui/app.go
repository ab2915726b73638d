package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/search"
	"github.com/mmcdole/reel/internal/tui/components"
)

// Focus identifies which pane receives navigation keys
type Focus int

const (
	FocusContent Focus = iota
	FocusDrawer
)

// Layout
const (
	DrawerWidth    = 24
	InspectorWidth = 42
	MinGridWidth   = 20

	// Header and footer lines
	ChromeHeight = 2

	tickInterval = 100 * time.Millisecond
)

// Options carries UI preferences from config
type Options struct {
	DefaultCategory domain.Category
	DefaultView     components.ViewMode
	GridColumns     int
	ImageURL        func(path string) string
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Services
	Favorites domain.FavoritesAccess
	Catalog   domain.CatalogCommands
	SearchSvc *search.Service
	logger    *slog.Logger

	// UI Components
	Drawer        components.Drawer
	Discover      components.MovieGrid
	FavoritesGrid components.MovieGrid
	Inspector     components.Inspector
	CategoryModal components.CategoryModal
	SearchBar     components.SearchBar
	Help          help.Model
	Keys          KeyMap

	// Navigation state
	Screen   components.Screen
	Focus    Focus
	Category domain.Category
	Query    string // Active catalog search; empty shows the category listing

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// UI state
	ShowInspector bool
	ShowHelp      bool
	Loading       bool
	Progress      ListingProgressMsg
	SpinnerFrame  int
	StatusMsg     string
	StatusIsErr   bool
	statusSeq     int

	observer    *ChannelObserver
	unsubscribe func()
	progress    *progressRelay
}

// NewModel creates a new application model and subscribes it to favorites
func NewModel(
	favorites domain.FavoritesAccess,
	catalog domain.CatalogCommands,
	searchSvc *search.Service,
	opts Options,
	logger *slog.Logger,
) Model {
	if logger == nil {
		logger = slog.Default()
	}
	category := opts.DefaultCategory
	if !category.Valid() {
		category = domain.CategoryPopular
	}

	discover := components.NewMovieGrid()
	discover.SetMode(opts.DefaultView)
	discover.SetColumns(opts.GridColumns)
	discover.SetEmptyText("No movies")

	favGrid := components.NewMovieGrid()
	favGrid.SetMode(opts.DefaultView)
	favGrid.SetColumns(opts.GridColumns)
	favGrid.SetEmptyText("No favorites yet. Press f on a movie to add it.")

	observer := NewChannelObserver()

	m := Model{
		Favorites:     favorites,
		Catalog:       catalog,
		SearchSvc:     searchSvc,
		logger:        logger,
		Drawer:        components.NewDrawer(),
		Discover:      discover,
		FavoritesGrid: favGrid,
		Inspector:     components.NewInspector(opts.ImageURL),
		CategoryModal: components.NewCategoryModal(),
		SearchBar:     components.NewSearchBar(),
		Help:          help.New(),
		Keys:          DefaultKeyMap(),
		Screen:        components.ScreenDiscover,
		Focus:         FocusContent,
		Category:      category,
		Loading:       true,
		observer:      observer,
		unsubscribe:   favorites.Subscribe(observer),
		progress:      newProgressRelay(),
	}

	favs := favorites.CurrentFavorites()
	m.FavoritesGrid.SetMovies(favs)
	m.applyFavorites(favs)
	m.Discover.SetTitle(m.discoverTitle())
	m.FavoritesGrid.SetTitle(m.favoritesTitle())
	m.Drawer.SetActive(m.Screen)
	m.setFocus(FocusContent)

	return m
}

// Close detaches the model from the favorites facade
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		FetchListingCmd(m.Catalog, m.Category, m.progress.reporter(m.Category)),
		m.observer.Wait(),
		m.progress.Wait(),
		TickCmd(tickInterval),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(tickInterval)

	case ListingLoadedMsg:
		// Ignore listings the user navigated away from
		if msg.Result.Category != m.Category || m.Query != "" {
			return m, nil
		}
		m.Loading = false
		m.Discover.SetMovies(msg.Result.Movies)
		m.Discover.SetTitle(m.discoverTitle())
		m.updateInspector()
		if msg.Result.FromCache {
			m.logger.Debug("listing served from cache", "category", msg.Result.Category)
		}
		return m, nil

	case ListingProgressMsg:
		if msg.Category == m.Category {
			m.Progress = msg
		}
		return m, m.progress.Wait()

	case SearchResultsMsg:
		if msg.Query != m.Query {
			return m, nil
		}
		m.Loading = false
		m.Discover.SetMovies(msg.Results)
		m.Discover.SetTitle(m.discoverTitle())
		m.updateInspector()
		if msg.Local {
			return m, m.setStatus(fmt.Sprintf("Offline: %d local matches", len(msg.Results)), true)
		}
		return m, nil

	case FavoritesChangedMsg:
		m.syncFavorites()
		return m, m.observer.Wait()

	case ErrMsg:
		m.Loading = false
		m.logger.Error("ui operation failed", "error", msg.Err, "context", msg.Context)
		return m, m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	return m, nil
}

// handleKeyMsg routes keys to overlays first, then to global bindings, then
// to the focused pane.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	if m.CategoryModal.IsVisible() {
		_, selection := m.CategoryModal.HandleKey(msg.String())
		if selection == nil {
			return m, nil
		}
		if *selection == m.Category && m.Query == "" {
			return m, nil
		}
		m.Category = *selection
		m.Query = ""
		return m, m.loadListing(false)
	}

	if m.SearchBar.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.SearchBar, cmd, submitted = m.SearchBar.Update(msg)
		if !submitted {
			return m, cmd
		}
		return m, m.submitSearch(m.SearchBar.Value())
	}

	grid := m.activeGrid()
	if m.Focus == FocusContent {
		if grid.IsFilterTyping() || (grid.IsFiltering() && (msg.String() == "esc" || msg.String() == "/")) {
			return m.updateActiveGrid(msg)
		}
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, m.Keys.SwitchPane):
		if m.Focus == FocusContent {
			m.setFocus(FocusDrawer)
		} else {
			m.setFocus(FocusContent)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Discover):
		m.switchScreen(components.ScreenDiscover)
		return m, nil

	case key.Matches(msg, m.Keys.Favorites):
		m.switchScreen(components.ScreenFavorites)
		return m, nil

	case key.Matches(msg, m.Keys.ToggleFavorite):
		return m, m.toggleSelected()

	case key.Matches(msg, m.Keys.ToggleView):
		m.Discover.ToggleMode()
		m.FavoritesGrid.SetMode(m.Discover.Mode())
		return m, nil

	case key.Matches(msg, m.Keys.Filter):
		m.setFocus(FocusContent)
		m.activeGridPtr().ToggleFilter()
		return m, nil

	case key.Matches(msg, m.Keys.Search):
		m.switchScreen(components.ScreenDiscover)
		m.SearchBar.Show(m.Query)
		return m, nil

	case key.Matches(msg, m.Keys.Category):
		m.switchScreen(components.ScreenDiscover)
		m.CategoryModal.Show(m.Category)
		return m, nil

	case key.Matches(msg, m.Keys.Refresh):
		if m.Screen == components.ScreenFavorites {
			m.syncFavorites()
			return m, nil
		}
		if m.Query != "" {
			return m, m.submitSearch(m.Query)
		}
		return m, m.loadListing(true)

	case key.Matches(msg, m.Keys.Details):
		m.ShowInspector = !m.ShowInspector
		m.updateLayout()
		m.updateInspector()
		return m, nil

	case key.Matches(msg, m.Keys.Escape):
		if m.Screen == components.ScreenDiscover && m.Query != "" {
			m.Query = ""
			return m, m.loadListing(false)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Enter):
		if m.Focus == FocusDrawer {
			m.switchScreen(m.Drawer.Selected())
			m.setFocus(FocusContent)
			return m, nil
		}
		if !m.ShowInspector {
			m.ShowInspector = true
			m.updateLayout()
		}
		m.updateInspector()
		return m, nil
	}

	if m.Focus == FocusDrawer {
		var cmd tea.Cmd
		m.Drawer, cmd = m.Drawer.Update(msg)
		return m, cmd
	}
	return m.updateActiveGrid(msg)
}

func (m Model) updateActiveGrid(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.Screen == components.ScreenFavorites {
		m.FavoritesGrid, cmd = m.FavoritesGrid.Update(msg)
	} else {
		m.Discover, cmd = m.Discover.Update(msg)
	}
	m.updateInspector()
	return m, cmd
}

// toggleSelected flips the favorite state of the movie under the cursor.
// The grids are refreshed from the facade right away; the observer message
// that follows is idempotent.
func (m *Model) toggleSelected() tea.Cmd {
	movie, ok := m.activeGrid().Selected()
	if !ok {
		return nil
	}

	m.Favorites.ToggleFavorite(movie)
	m.syncFavorites()

	if m.Favorites.IsFavorite(movie.ID) {
		return m.setStatus("Added to favorites: "+movie.Title, false)
	}
	return m.setStatus("Removed from favorites: "+movie.Title, false)
}

// syncFavorites re-reads the facade and pushes the list into every view
func (m *Model) syncFavorites() {
	favs := m.Favorites.CurrentFavorites()
	m.FavoritesGrid.ReplaceMovies(favs)
	m.applyFavorites(favs)
	m.FavoritesGrid.SetTitle(m.favoritesTitle())
	m.updateInspector()
}

func (m *Model) applyFavorites(favs []domain.Movie) {
	m.Discover.SetFavorites(favs)
	m.FavoritesGrid.SetFavorites(favs)
	m.Drawer.SetFavoritesCount(len(favs))
}

func (m *Model) submitSearch(raw string) tea.Cmd {
	query := strings.TrimSpace(raw)
	if query == "" {
		if m.Query == "" {
			return nil
		}
		m.Query = ""
		return m.loadListing(false)
	}

	m.Query = query
	m.Loading = true
	m.Discover.SetTitle(m.discoverTitle())
	if m.SearchSvc == nil {
		return nil
	}
	return SearchCmd(m.SearchSvc, query)
}

func (m *Model) loadListing(refresh bool) tea.Cmd {
	m.Loading = true
	m.Progress = ListingProgressMsg{}
	m.Discover.SetTitle(m.discoverTitle())

	report := m.progress.reporter(m.Category)
	if refresh {
		return RefreshListingCmd(m.Catalog, m.Category, report)
	}
	return FetchListingCmd(m.Catalog, m.Category, report)
}

func (m *Model) switchScreen(screen components.Screen) {
	m.Screen = screen
	m.Drawer.SetActive(screen)
	m.setFocus(m.Focus)
	m.updateInspector()
}

func (m *Model) setFocus(focus Focus) {
	m.Focus = focus
	m.Drawer.SetFocused(focus == FocusDrawer)
	contentFocused := focus == FocusContent
	m.Discover.SetFocused(contentFocused && m.Screen == components.ScreenDiscover)
	m.FavoritesGrid.SetFocused(contentFocused && m.Screen == components.ScreenFavorites)
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusSeq)
}

func (m Model) activeGrid() components.MovieGrid {
	if m.Screen == components.ScreenFavorites {
		return m.FavoritesGrid
	}
	return m.Discover
}

func (m *Model) activeGridPtr() *components.MovieGrid {
	if m.Screen == components.ScreenFavorites {
		return &m.FavoritesGrid
	}
	return &m.Discover
}

func (m *Model) updateInspector() {
	movie, ok := m.activeGrid().Selected()
	if !ok {
		m.Inspector.SetMovie(nil, false)
		return
	}
	m.Inspector.SetMovie(&movie, m.Favorites.IsFavorite(movie.ID))
}

func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := max(1, m.Height-ChromeHeight)
	gridWidth := m.Width - DrawerWidth
	if m.ShowInspector {
		gridWidth -= InspectorWidth
	}
	gridWidth = max(MinGridWidth, gridWidth)

	m.Drawer.SetSize(DrawerWidth, contentHeight)
	m.Discover.SetSize(gridWidth, contentHeight)
	m.FavoritesGrid.SetSize(gridWidth, contentHeight)
	m.Inspector.SetSize(InspectorWidth, contentHeight)
	m.Help.Width = m.Width
}
