package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/pursuit-racer/internal/core"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapAction(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{"a", runeKey("a"), core.ActionLeft},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{"d", runeKey("d"), core.ActionRight},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionConfirm},
		{"r", runeKey("r"), core.ActionRestart},
		{"p", runeKey("p"), core.ActionPause},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause},
		{"q", runeKey("q"), core.ActionQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"unbound", runeKey("x"), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keys.Action(tt.msg))
		})
	}
}

func TestKeyMapHelp(t *testing.T) {
	keys := DefaultKeyMap()
	assert.NotEmpty(t, keys.ShortHelp())

	n := 0
	for _, col := range keys.FullHelp() {
		n += len(col)
	}
	assert.Equal(t, 7, n, "every binding appears in the full help")
}

func TestFrameTime(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	nominal := time.Second / 60

	assert.Equal(t, nominal, frameTime(time.Time{}, now, 60))
	assert.Equal(t, 20*time.Millisecond, frameTime(now, now.Add(20*time.Millisecond), 60))
	assert.Equal(t, maxFrame, frameTime(now, now.Add(3*time.Second), 60))
	assert.Equal(t, nominal, frameTime(now, now, 60))
	assert.Equal(t, nominal, frameTime(now, now.Add(-time.Second), 60))
}
