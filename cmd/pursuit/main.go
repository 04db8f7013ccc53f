// pursuit is a terminal lane racer: outrun three rivals to the finish line
// while a giant boulder rolls after you.
//
// Usage:
//
//	pursuit play               - Race in the terminal
//	pursuit simulate           - Run a race headless and print the outcome
//	pursuit levels [file...]   - List built-in levels or check level files
//	pursuit scores [level]     - Show best times for a level
//	pursuit serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--db <path>           - Set database path (default: ~/.pursuit/results.db)
//	--config <path>       - Race tunables YAML
//	--difficulty <name>   - easy, normal, hard or fixed
//	--level <id|file>     - Power-up layout (default: classic)
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pursuit-racer/internal/config"
	"github.com/vovakirdan/pursuit-racer/internal/level"
)

var (
	// Global flags
	flagFPS        int
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLevel      string
	flagLogLevel   string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pursuit",
	})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pursuit",
	Short: "Pursuit - outrun the boulder in your terminal",
	Long: `Pursuit is a three-lane terminal racer. Switch lanes to get past your
rivals, grab power-ups to speed up and cross the finish line before the
boulder behind you catches up.

Available commands:
  play      - Race in the terminal
  simulate  - Run a race without a terminal
  levels    - List built-in power-up layouts
  scores    - View best times
  serve     - Start SSH server for remote play

Examples:
  pursuit play
  pursuit play --level zigzag --difficulty hard
  pursuit simulate --strategy weave --seconds 90
  pursuit scores classic
  pursuit serve --ssh :2222`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		lvl, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
		}
		logger.SetLevel(lvl)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.StringVar(&flagDBPath, "db", "~/.pursuit/results.db", "Path to results database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom race config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLevel, "level", "classic", "Built-in level id or level file (\"none\" disables power-ups)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadRace resolves the race config and level from the global flags.
func loadRace() (config.RaceConfig, *level.Level, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.RaceConfig{}, nil, err
	}

	if flagDifficulty != "" {
		preset := config.ParsePreset(flagDifficulty)
		if preset == "" {
			return config.RaceConfig{}, nil, fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
		config.ApplyPreset(&cfg, preset)
	}

	lvl, err := loadLevel(flagLevel, cfg.Track.Lanes)
	if err != nil {
		return config.RaceConfig{}, nil, err
	}
	return cfg, lvl, nil
}

// loadLevel resolves a level reference and logs rows that were skipped.
func loadLevel(ref string, lanes int) (*level.Level, error) {
	if ref == "" || ref == "none" {
		return nil, nil
	}

	lvl, err := level.Resolve(ref, lanes)
	if err != nil {
		return nil, err
	}
	for _, skipped := range lvl.Skipped {
		logger.Warn("skipped level row", "level", lvl.ID, "line", skipped.Line, "row", skipped.Text, "reason", skipped.Reason)
	}
	if lvl.Empty() {
		logger.Warn("level has no usable rows, power-ups disabled", "level", lvl.ID)
	}
	return lvl, nil
}

// difficultyName is the label stored with results.
func difficultyName() string {
	if flagDifficulty == "" {
		return "default"
	}
	return flagDifficulty
}
