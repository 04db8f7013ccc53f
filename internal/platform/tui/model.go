package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pursuit-racer/internal/core"
	"github.com/vovakirdan/pursuit-racer/internal/race"
	"github.com/vovakirdan/pursuit-racer/internal/storage"
)

// goFlash is how long "GO!" stays on screen after the countdown.
const goFlash = 600 * time.Millisecond

// Options are the optional collaborators of a Model.
type Options struct {
	Store      *storage.Store // Results are not recorded when nil
	Difficulty string         // Recorded with each result
	Logger     *log.Logger
}

// resultSavedMsg reports the outcome of a background save.
type resultSavedMsg struct {
	id  int64
	err error
}

// Model is the Bubble Tea model for a single race session.
type Model struct {
	sim    *race.Sim
	screen *core.Screen
	config core.RuntimeConfig
	keys   KeyMap
	help   help.Model

	store      *storage.Store
	difficulty string
	logger     *log.Logger

	inputFrame core.InputFrame
	lastTick   time.Time
	countdown  int           // Last countdown step, 0 once running
	flash      time.Duration // Remaining "GO!" time
	paused     bool
	quitting   bool
	saved      bool // Whether the current race result has been recorded
}

// NewModel creates a Bubble Tea model driving sim.
func NewModel(sim *race.Sim, cfg core.RuntimeConfig, opts Options) Model {
	cfg = cfg.Normalize()
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		sim:        sim,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH-1),
		config:     cfg,
		keys:       DefaultKeyMap(),
		help:       h,
		store:      opts.Store,
		difficulty: opts.Difficulty,
		logger:     logger,
		inputFrame: core.NewInputFrame(),
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case resultSavedMsg:
		if msg.err != nil {
			m.logger.Error("cannot save result", "err", msg.err)
		} else {
			m.logger.Debug("result saved", "id", msg.id)
		}
	}

	return m, nil
}

// handleKey queues keyboard input for the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if msg.String() == "?" {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch action := m.keys.Action(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleMouse turns a left click into a touch on the track.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || m.paused {
		return m, nil
	}
	snap := m.sim.Snapshot()
	if snap == nil {
		return m, nil
	}
	v := NewViewport(snap, m.screen.Width(), m.screen.Height())
	x, y := v.World(msg.X, msg.Y)
	m.sim.TouchDown(x, y)
	return m, nil
}

// handleResize processes window resize events. The race keeps running;
// only the view changes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	m.screen.Resize(msg.Width, max(msg.Height-1, 1))
	return m, nil
}

// handleTick applies queued input and advances the simulation by the
// measured frame time.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := frameTime(m.lastTick, now, m.config.TickRate)
	m.lastTick = now
	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}

	m.applyInput()
	if m.paused {
		return m, tea.Batch(cmds...)
	}

	res := m.sim.Tick(dt)
	m.flash = max(m.flash-dt, 0)
	for _, e := range res.Events {
		if cmd := m.handleEvent(e); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) applyInput() {
	defer m.inputFrame.Clear()

	if m.inputFrame.Has(core.ActionPause) && m.sim.Phase() == race.PhaseRunning {
		m.paused = !m.paused
	}
	if m.paused {
		return
	}

	switch {
	case m.inputFrame.Has(core.ActionLeft):
		m.sim.Shift(-1)
	case m.inputFrame.Has(core.ActionRight):
		m.sim.Shift(1)
	}
	if m.inputFrame.Has(core.ActionConfirm) {
		m.sim.DismissTutorial()
	}
	if m.inputFrame.Has(core.ActionRestart) && m.sim.Phase().Terminal() {
		if err := m.sim.Replay(); err != nil {
			m.logger.Warn("replay refused", "err", err)
		}
	}
}

// handleEvent updates presentation state and returns a command for
// events that need one.
func (m *Model) handleEvent(e race.Event) tea.Cmd {
	switch e := e.(type) {
	case race.PhaseChanged:
		if e.Phase == race.PhaseReady {
			m.saved = false
		}
	case race.Countdown:
		m.countdown = e.Remaining
		if e.Remaining == 0 {
			m.flash = goFlash
		}
	case race.RaceFinished:
		return m.recordResult(storage.RaceResult{
			Outcome:  storage.OutcomeFinished,
			Place:    e.Place,
			Elapsed:  e.Elapsed,
			Distance: m.sim.Snapshot().Player().Y,
		})
	case race.GameOver:
		return m.recordResult(storage.RaceResult{
			Outcome:  storage.OutcomeCaught,
			Elapsed:  e.Elapsed,
			Distance: e.Distance,
		})
	}
	return nil
}

// recordResult saves the race result once per race.
func (m *Model) recordResult(r storage.RaceResult) tea.Cmd {
	if m.saved || m.store == nil {
		return nil
	}
	m.saved = true

	r.LevelID = m.sim.LevelID()
	r.Difficulty = m.difficulty
	store := m.store
	return func() tea.Msg {
		id, err := store.SaveResult(r)
		return resultSavedMsg{id: id, err: err}
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	DrawSnapshot(m.screen, m.sim.Snapshot())

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	dir := filepath.Join(home, ".pursuit", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}

	name := m.sim.LevelID()
	if name == "" {
		name = "race"
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", name, time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	helpView := m.help.View(m.keys)
	if h := max(m.config.ScreenH-lipgloss.Height(helpView), 1); h != m.screen.Height() {
		m.screen.Resize(m.config.ScreenW, h)
	}

	snap := m.sim.Snapshot()
	DrawSnapshot(m.screen, snap)
	switch {
	case m.paused:
		drawBanner(m.screen, m.screen.Height()/2, "PAUSED", core.ColorBrightWhite)
	case snap != nil && snap.Phase == race.PhaseReady && m.countdown > 0:
		DrawCountdown(m.screen, m.countdown)
	case snap != nil && snap.Phase == race.PhaseRunning && m.flash > 0:
		DrawCountdown(m.screen, 0)
	}

	return RenderScreen(m.screen) + "\n" + helpView
}

// Run starts the Bubble Tea program for one race.
func Run(sim *race.Sim, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(sim, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
