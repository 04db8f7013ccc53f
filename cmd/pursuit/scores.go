package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pursuit-racer/internal/level"
	"github.com/vovakirdan/pursuit-racer/internal/platform/tui"
	"github.com/vovakirdan/pursuit-racer/internal/storage"
)

var (
	flagScoresBrowse bool
	flagScoresLimit  int
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show best times for a level",
	Long: `Display the best finishing times for a level (default: --level).

Examples:
  pursuit scores
  pursuit scores zigzag
  pursuit scores --browse
  pursuit scores sparse --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresBrowse, "browse", false, "Browse results interactively")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of results to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all results for the level")
}

func runScores(_ *cobra.Command, args []string) error {
	levelID := flagLevel
	if len(args) == 1 {
		levelID = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagScoresBrowse {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(0); termErr == nil {
			width, height = w, h
		}
		return tui.RunResults(store, level.BuiltinIDs(), width, height)
	}

	if flagScoresClear {
		if err := store.ClearResults(levelID); err != nil {
			return err
		}
		fmt.Printf("Cleared results for %q.\n", levelID)
		return nil
	}

	results, err := store.BestTimes(levelID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Best Times - %s\n", levelID)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No finished races recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'pursuit play --level %s' to set the first time!\n", levelID)
		return nil
	}

	fmt.Printf("  %-4s  %-5s  %-8s  %-10s  %s\n", "Rank", "Place", "Time", "Difficulty", "Date")
	fmt.Printf("  %-4s  %-5s  %-8s  %-10s  %s\n", "----", "-----", "----", "----------", "----")
	for i, r := range results {
		fmt.Printf("  %-4d  %-5d  %-8s  %-10s  %s\n",
			i+1, r.Place, fmt.Sprintf("%.2fs", r.Elapsed), r.Difficulty, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	best, err := store.BestTime(levelID)
	switch {
	case errors.Is(err, storage.ErrNoResults):
		fmt.Println("No wins yet.")
	case err != nil:
		return err
	default:
		fmt.Printf("Best winning time: %.2fs\n", best)
	}

	if stats, err := store.Stats(levelID); err == nil {
		fmt.Printf("%d races, %d finished, %d wins\n", stats.Races, stats.Finished, stats.Wins)
	}
	return nil
}
