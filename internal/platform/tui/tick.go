// Package tui drives a race inside a Bubble Tea program.
// It paces the simulation, maps keys and mouse clicks to race input,
// draws snapshots into a cell buffer and records results.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxFrame caps the measured frame time so a stalled terminal does not
// teleport the runners.
const maxFrame = 100 * time.Millisecond

// TickMsg is sent to trigger a simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// frameTime returns the time since the previous tick. The first tick of a
// session uses the nominal interval.
func frameTime(prev, now time.Time, tickRate int) time.Duration {
	if prev.IsZero() || !now.After(prev) {
		return time.Second / time.Duration(tickRate)
	}
	return min(now.Sub(prev), maxFrame)
}
