package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Screen identifies a top-level destination in the drawer
type Screen int

const (
	ScreenDiscover Screen = iota
	ScreenFavorites
)

// Screens lists the drawer entries in display order
var Screens = []Screen{ScreenDiscover, ScreenFavorites}

// String returns the display name of the screen
func (s Screen) String() string {
	switch s {
	case ScreenFavorites:
		return "Favorites"
	default:
		return "Discover"
	}
}

// DrawerItem implements list.Item for a screen entry
type DrawerItem struct {
	Screen Screen
	Count  int  // Badge count, shown for favorites
	Active bool // Currently displayed screen
}

func (i DrawerItem) FilterValue() string { return i.Screen.String() }

func (i DrawerItem) Title() string {
	marker := "  "
	if i.Active {
		marker = "▸ "
	}
	if i.Screen == ScreenFavorites {
		return fmt.Sprintf("%s%s %s (%d)", marker, styles.FavoriteChar, i.Screen, i.Count)
	}
	return marker + i.Screen.String()
}

func (i DrawerItem) Description() string { return "" }

// Border overhead for the drawer panel
const BorderSize = 2

// Drawer is the screen navigation panel
type Drawer struct {
	list           list.Model
	focused        bool
	width          int
	height         int
	active         Screen
	favoritesCount int
}

// NewDrawer creates a new drawer component
func NewDrawer() Drawer {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(styles.White).
		Background(styles.SlateLight).
		Padding(0, 1)
	delegate.Styles.NormalTitle = lipgloss.NewStyle().
		Foreground(styles.LightGray).
		Padding(0, 1)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Reel"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true).
		Padding(0, 1)

	d := Drawer{list: l}
	d.refreshItems()
	return d
}

// SetActive marks the displayed screen and moves the cursor to it
func (d *Drawer) SetActive(screen Screen) {
	d.active = screen
	d.refreshItems()
	for i, s := range Screens {
		if s == screen {
			d.list.Select(i)
		}
	}
}

// Active returns the displayed screen
func (d Drawer) Active() Screen {
	return d.active
}

// SetFavoritesCount updates the favorites badge
func (d *Drawer) SetFavoritesCount(n int) {
	d.favoritesCount = n
	d.refreshItems()
}

func (d *Drawer) refreshItems() {
	items := make([]list.Item, len(Screens))
	for i, s := range Screens {
		item := DrawerItem{Screen: s, Active: s == d.active}
		if s == ScreenFavorites {
			item.Count = d.favoritesCount
		}
		items[i] = item
	}
	d.list.SetItems(items)
}

// SetSize updates the component dimensions
func (d *Drawer) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.list.SetSize(width-BorderSize, height-BorderSize)
}

// SetFocused sets the focus state
func (d *Drawer) SetFocused(focused bool) {
	d.focused = focused
}

// IsFocused returns the focus state
func (d Drawer) IsFocused() bool {
	return d.focused
}

// Selected returns the screen under the cursor
func (d Drawer) Selected() Screen {
	item, ok := d.list.SelectedItem().(DrawerItem)
	if !ok {
		return d.active
	}
	return item.Screen
}

// Update handles messages
func (d Drawer) Update(msg tea.Msg) (Drawer, tea.Cmd) {
	if !d.focused {
		return d, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			d.list.CursorDown()
		case "k", "up":
			d.list.CursorUp()
		case "g":
			d.list.Select(0)
		case "G":
			d.list.Select(len(d.list.Items()) - 1)
		}
	}

	return d, nil
}

// View renders the component
func (d Drawer) View() string {
	style := styles.InactiveBorder
	if d.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()

	return style.
		Width(d.width - frameW).
		Height(d.height - frameH).
		Render(d.list.View())
}
