package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/pursuit-racer/internal/config"
	"github.com/vovakirdan/pursuit-racer/internal/level"
	"github.com/vovakirdan/pursuit-racer/internal/race"
)

func TestLoadLevel(t *testing.T) {
	lvl, err := loadLevel("none", 3)
	require.NoError(t, err)
	assert.Nil(t, lvl)

	lvl, err = loadLevel("classic", 3)
	require.NoError(t, err)
	assert.Equal(t, "classic", lvl.ID)

	_, err = loadLevel("no-such-level", 3)
	assert.True(t, errors.Is(err, level.ErrUnknownLevel))

	file := filepath.Join(t.TempDir(), "mine.txt")
	require.NoError(t, os.WriteFile(file, []byte("1..\nbad\n..1\n"), 0o600))
	lvl, err = loadLevel(file, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, lvl.Len())
	assert.Len(t, lvl.Skipped, 1)
}

func TestLoadRaceRejectsUnknownDifficulty(t *testing.T) {
	flagDifficulty = "brutal"
	t.Cleanup(func() { flagDifficulty = "" })

	_, _, err := loadRace()
	assert.ErrorContains(t, err, "unknown difficulty")
}

func TestStrategyFor(t *testing.T) {
	_, err := strategyFor("zigzag", time.Second/60)
	assert.Error(t, err)

	for _, name := range []string{"none", "weave", "center"} {
		s, err := strategyFor(name, time.Second/60)
		require.NoError(t, err, name)
		assert.NotNil(t, s, name)
	}
}

func TestWeaveStrategyChangesLane(t *testing.T) {
	sim, err := race.New(config.DefaultRaceConfig(), race.WithoutTutorial())
	require.NoError(t, err)
	for i := 0; i < 2000 && sim.Phase() != race.PhaseRunning; i++ {
		sim.Tick(time.Second / 60)
	}
	require.Equal(t, race.PhaseRunning, sim.Phase())

	weave, err := strategyFor("weave", time.Second/60)
	require.NoError(t, err)

	// Early moves may be refused while the field is bunched up; the rivals
	// pull away within a few seconds.
	start := sim.Snapshot().Player().Lane
	moved := false
	for tick := 0; tick < 20*60 && !moved && sim.Phase() == race.PhaseRunning; tick++ {
		weave(sim, sim.Snapshot(), tick)
		sim.Tick(time.Second / 60)
		moved = sim.Snapshot().Player().Lane != start
	}
	assert.True(t, moved, "weaving never left the starting lane")
}

func TestGlobalFlags(t *testing.T) {
	var names []string
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		names = append(names, f.Name)
	})
	assert.ElementsMatch(t, []string{"fps", "db", "config", "difficulty", "level", "log-level"}, names)
}
