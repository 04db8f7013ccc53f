package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pursuit-racer/internal/storage"
)

// Results browser layout constants
const (
	maxResults     = 100 // Rows loaded per view
	resultsChrome  = 9   // Title, tabs, stats, borders and help
	historyTabName = "history"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// ResultsKeyMap defines the key bindings for the results browser.
type ResultsKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ResultsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ResultsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Next, k.Prev}, {k.Quit}}
}

// DefaultResultsKeyMap returns default key bindings.
func DefaultResultsKeyMap() ResultsKeyMap {
	return ResultsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next level"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev level"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ResultsModel browses best times per level and the recent race history.
type ResultsModel struct {
	store   *storage.Store
	tabs    []string // Level ids followed by the history tab
	cursor  int
	results []storage.RaceResult
	stats   *storage.LevelStats
	err     error
	table   table.Model
	help    help.Model
	keys    ResultsKeyMap
	width   int
	height  int
}

// NewResultsModel creates a results browser over the given levels.
func NewResultsModel(store *storage.Store, levels []string, width, height int) ResultsModel {
	m := ResultsModel{
		store:  store,
		tabs:   append(append([]string(nil), levels...), historyTabName),
		keys:   DefaultResultsKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *ResultsModel) history() bool {
	return m.tabs[m.cursor] == historyTabName
}

func (m *ResultsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Place", Width: 6},
		{Title: "Time", Width: 8},
		{Title: "Difficulty", Width: 10},
		{Title: "Date", Width: 14},
	}
	if m.history() {
		columns[0] = table.Column{Title: "Level", Width: 10}
		columns[1] = table.Column{Title: "Result", Width: 8}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-resultsChrome, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load fetches rows for the current tab.
func (m *ResultsModel) load() {
	m.results, m.stats, m.err = nil, nil, nil
	if m.store != nil {
		if m.history() {
			m.results, m.err = m.store.History(maxResults)
		} else {
			id := m.tabs[m.cursor]
			m.results, m.err = m.store.BestTimes(id, maxResults)
			if m.err == nil {
				m.stats, m.err = m.store.Stats(id)
			}
		}
	}
	m.table = m.createTable()
	m.table.SetRows(m.rows())
	m.table.GotoTop()
}

func (m *ResultsModel) rows() []table.Row {
	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		date := r.CreatedAt.Format("Jan 02 15:04")
		if m.history() {
			rows[i] = table.Row{r.LevelID, outcomeLabel(r), fmt.Sprintf("%.1fs", r.Elapsed), r.Difficulty, date}
			continue
		}
		rows[i] = table.Row{fmt.Sprintf("%d", i+1), ordinal(r.Place), fmt.Sprintf("%.1fs", r.Elapsed), r.Difficulty, date}
	}
	return rows
}

func outcomeLabel(r storage.RaceResult) string {
	if r.Outcome == storage.OutcomeCaught {
		return "caught"
	}
	return ordinal(r.Place)
}

// Init initializes the results model.
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results browser.
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.cursor = (m.cursor + 1) % len(m.tabs)
			m.load()
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.cursor = (m.cursor + len(m.tabs) - 1) % len(m.tabs)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		m.table.SetRows(m.rows())
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the results browser.
func (m ResultsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("RESULTS"))
	b.WriteString("\n\n")

	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(t)
		} else {
			tabs[i] = mutedStyle.Render(" " + t + " ")
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(boxStyle.Render(fmt.Sprintf("Cannot load results: %v", m.err)))
	case len(m.results) == 0:
		b.WriteString(boxStyle.Render(mutedStyle.Italic(true).Render("No races recorded yet.")))
	default:
		b.WriteString(boxStyle.Render(m.table.View()))
	}
	b.WriteString("\n")

	if m.stats != nil && m.stats.Races > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf(
			"%d races  %d finished  %d wins  best %.1fs  avg %.1fs",
			m.stats.Races, m.stats.Finished, m.stats.Wins, m.stats.BestTime, m.stats.AverageTime,
		)))
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// RunResults runs the results browser until the user quits.
func RunResults(store *storage.Store, levels []string, width, height int) error {
	p := tea.NewProgram(NewResultsModel(store, levels, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
