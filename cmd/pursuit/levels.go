package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pursuit-racer/internal/config"
	"github.com/vovakirdan/pursuit-racer/internal/level"
)

var levelsCmd = &cobra.Command{
	Use:   "levels [file...]",
	Short: "List built-in levels or check level files",
	Long: `Without arguments, lists the built-in power-up layouts.

With arguments, parses each level file (.txt rows or .yaml) and reports
rows that would be skipped.

Examples:
  pursuit levels
  pursuit levels ./my-level.txt ./other.yaml`,
	RunE: runLevels,
}

func runLevels(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	lanes := cfg.Track.Lanes

	if len(args) == 0 {
		return listBuiltinLevels(lanes)
	}

	failed := 0
	for _, file := range args {
		lvl, err := level.Load(file, lanes)
		if err != nil {
			fmt.Printf("%s: %v\n", file, err)
			failed++
			continue
		}
		fmt.Printf("%s: %q, %d rows, %d power-ups per pass\n", file, lvl.Name, lvl.Len(), lvl.Count())
		for _, skipped := range lvl.Skipped {
			fmt.Printf("  skipped line %d %q: %s\n", skipped.Line, skipped.Text, skipped.Reason)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d level files could not be read", failed, len(args))
	}
	return nil
}

func listBuiltinLevels(lanes int) error {
	ids := level.BuiltinIDs()
	if len(ids) == 0 {
		fmt.Println("No built-in levels.")
		return nil
	}

	fmt.Println("Built-in levels:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, id := range ids {
		maxIDLen = max(maxIDLen, len(id))
	}

	fmt.Printf("  %-*s  %-12s  %4s  %s\n", maxIDLen, "ID", "Name", "Rows", "Power-ups")
	fmt.Printf("  %-*s  %-12s  %4s  %s\n", maxIDLen, "--", "----", "----", "---------")
	for _, id := range ids {
		lvl, err := level.Builtin(id, lanes)
		if err != nil {
			return err
		}
		fmt.Printf("  %-*s  %-12s  %4d  %d\n", maxIDLen, id, lvl.Name, lvl.Len(), lvl.Count())
	}

	fmt.Println()
	fmt.Println("Run 'pursuit play --level <id>' to race a level.")
	return nil
}
