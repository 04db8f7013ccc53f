package tui

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/pursuit-racer/internal/race"
)

func TestEventLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewEventLogger(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))

	l.HandleEvent(race.LaneChangeBlocked{ActorID: 0, From: 1, To: 0})
	assert.Empty(t, buf.String(), "debug events are filtered at info level")

	l.HandleEvent(race.RaceFinished{Place: 2, Elapsed: 40})
	assert.Contains(t, buf.String(), "race finished")
	assert.Contains(t, buf.String(), "place=2")

	buf.Reset()
	l.HandleEvent(race.GameOver{Elapsed: 12, Distance: 600})
	assert.Contains(t, buf.String(), "caught")
	assert.Contains(t, buf.String(), "distance=600")
}

func TestEventLoggerDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewEventLogger(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))

	l.HandleEvent(race.PowerUpCollected{PowerUpID: 7, Lane: 2, Speed: 64})
	assert.Contains(t, buf.String(), "power-up")
	assert.Contains(t, buf.String(), "lane=2")

	// A listener must be usable as a race.Listener
	var _ race.Listener = l
}
