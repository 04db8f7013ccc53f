package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pursuit-racer/internal/core"
	"github.com/vovakirdan/pursuit-racer/internal/platform/tui"
	"github.com/vovakirdan/pursuit-racer/internal/race"
	"github.com/vovakirdan/pursuit-racer/internal/storage"
)

var (
	flagLogFile    string
	flagNoTutorial bool
	flagPick       bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Race in the terminal",
	Long: `Start a race.

Controls:
  Left/A, Right/D  - Change lane
  Mouse click      - Move one lane toward the clicked lane
  Enter/Space      - Skip the tutorial
  P/Esc            - Pause
  R                - Race again (after the finish)
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Gentler boulder, bigger boosts
  normal - Boulder aggression starts at 30% and ramps up
  hard   - Faster boulder, more drag
  fixed  - No progression, stays at config's initial level

Examples:
  pursuit play
  pursuit play --level zigzag
  pursuit play --pick
  pursuit play --difficulty hard
  pursuit play --config ./my-race.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "~/.pursuit/pursuit.log", "Where to write logs while the race owns the terminal")
	playCmd.Flags().BoolVar(&flagNoTutorial, "no-tutorial", false, "Skip the first-play tutorial")
	playCmd.Flags().BoolVar(&flagPick, "pick", false, "Pick a built-in level from a menu")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, lvl, err := loadRace()
	if err != nil {
		return err
	}

	// The terminal belongs to the race; logs go to a file
	logFile, err := openLogFile(flagLogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger.SetOutput(logFile)

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		// Racing still works without results
		logger.Warn("could not open results database", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if flagPick {
		id, err := tui.PickLevel(store, cfg.Track.Lanes, width)
		if err != nil {
			return err
		}
		if id == "" {
			return nil
		}
		if lvl, err = loadLevel(id, cfg.Track.Lanes); err != nil {
			return err
		}
	}

	opts := []race.Option{
		race.WithLevel(lvl),
		race.WithListener(tui.NewEventLogger(logger)),
	}
	if flagNoTutorial {
		opts = append(opts, race.WithoutTutorial())
	}
	sim, err := race.New(cfg, opts...)
	if err != nil {
		return err
	}

	logger.Info("race starting", "level", sim.LevelID(), "difficulty", difficultyName())
	return tui.Run(sim, core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
	}, tui.Options{
		Store:      store,
		Difficulty: difficultyName(),
		Logger:     logger,
	})
}

// openLogFile opens path for appending, expanding a leading ~.
func openLogFile(path string) (*os.File, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, nil
}
