package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pursuit-racer/internal/level"
	"github.com/vovakirdan/pursuit-racer/internal/storage"
)

// LevelItem is a selectable level in the picker.
type LevelItem struct {
	ID       string
	Name     string
	PowerUps int     // Power-ups per pass over the rows
	Best     float64 // Best winning time, 0 when never won
}

// menuKeys are the level picker bindings.
var menuKeys = struct {
	Up, Down, Select, Quit key.Binding
}{
	Up:     key.NewBinding(key.WithKeys("up", "k", "w")),
	Down:   key.NewBinding(key.WithKeys("down", "j", "s")),
	Select: key.NewBinding(key.WithKeys("enter", " ")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

// LevelMenuModel is the Bubble Tea model for picking a level before a race.
type LevelMenuModel struct {
	items    []LevelItem
	cursor   int
	width    int
	selected *LevelItem
}

// NewLevelMenuModel lists the built-in levels. Best times are read from
// store when it is not nil.
func NewLevelMenuModel(store *storage.Store, lanes, width int) LevelMenuModel {
	ids := level.BuiltinIDs()
	items := make([]LevelItem, 0, len(ids))
	for _, id := range ids {
		lvl, err := level.Builtin(id, lanes)
		if err != nil {
			continue
		}
		item := LevelItem{ID: id, Name: lvl.Name, PowerUps: lvl.Count()}
		if store != nil {
			// ErrNoResults leaves Best at zero
			if best, err := store.BestTime(id); err == nil {
				item.Best = best
			}
		}
		items = append(items, item)
	}

	return LevelMenuModel{items: items, width: width}
}

// Init initializes the menu model.
func (m LevelMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m LevelMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, menuKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, menuKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, menuKeys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, menuKeys.Select):
			if len(m.items) > 0 {
				selected := m.items[m.cursor]
				m.selected = &selected
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
	}

	return m, nil
}

// View renders the menu.
func (m LevelMenuModel) View() string {
	if m.selected != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("P U R S U I T"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Pick a track", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		best := "--"
		if item.Best > 0 {
			best = fmt.Sprintf("%.1fs", item.Best)
		}
		line := fmt.Sprintf("%s%-12s %3d power-ups  best %6s", cursor, item.Name, item.PowerUps, best)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(mutedStyle.Render("Up/Down: Navigate  |  Enter: Race  |  Q: Quit"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen level, or nil if the user quit.
func (m LevelMenuModel) Selected() *LevelItem {
	return m.selected
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// PickLevel runs the level picker. It returns "" if the user quit.
func PickLevel(store *storage.Store, lanes, width int) (string, error) {
	p := tea.NewProgram(NewLevelMenuModel(store, lanes, width), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(LevelMenuModel); ok && m.Selected() != nil {
		return m.Selected().ID, nil
	}
	return "", nil
}
