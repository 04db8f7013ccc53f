package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pursuit-racer/internal/platform/tui"
	"github.com/vovakirdan/pursuit-racer/internal/race"
	"github.com/vovakirdan/pursuit-racer/internal/storage"
)

var (
	flagSimSeconds  float64
	flagSimDT       time.Duration
	flagSimStrategy string
	flagSimSave     bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a race without a terminal",
	Long: `Run a race headless at a fixed time step and print the outcome.

The simulation is deterministic: the same config, level, step and strategy
always produce the same race, which the printed hash identifies.

Strategies:
  none    - Never change lanes
  weave   - Alternate left and right every second
  center  - Keep returning to the center lane with touches

Examples:
  pursuit simulate
  pursuit simulate --strategy weave --level zigzag
  pursuit simulate --dt 10ms --seconds 120 --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Float64Var(&flagSimSeconds, "seconds", 120, "Race time limit in simulated seconds")
	simulateCmd.Flags().DurationVar(&flagSimDT, "dt", time.Second/60, "Fixed time step")
	simulateCmd.Flags().StringVar(&flagSimStrategy, "strategy", "none", "Input strategy: none, weave, center")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Record the result in the results database")
}

// strategy feeds input to the race before each tick.
type strategy func(sim *race.Sim, snap *race.Snapshot, tick int)

func strategyFor(name string, dt time.Duration) (strategy, error) {
	perSecond := max(int(time.Second/dt), 1)

	switch name {
	case "none":
		return func(*race.Sim, *race.Snapshot, int) {}, nil
	case "weave":
		dir := -1
		return func(sim *race.Sim, _ *race.Snapshot, tick int) {
			if tick%perSecond == 0 {
				sim.Shift(dir)
				dir = -dir
			}
		}, nil
	case "center":
		return func(sim *race.Sim, snap *race.Snapshot, tick int) {
			if tick%perSecond == 0 {
				sim.TouchDown(0, snap.Player().Y)
			}
		}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q (want none, weave or center)", name)
}

func runSimulate(_ *cobra.Command, _ []string) error {
	if flagSimDT <= 0 {
		return fmt.Errorf("--dt must be positive, got %s", flagSimDT)
	}
	cfg, lvl, err := loadRace()
	if err != nil {
		return err
	}
	input, err := strategyFor(flagSimStrategy, flagSimDT)
	if err != nil {
		return err
	}

	sim, err := race.New(cfg,
		race.WithLevel(lvl),
		race.WithoutTutorial(),
		race.WithListener(tui.NewEventLogger(logger)),
	)
	if err != nil {
		return err
	}

	var (
		outcome  race.Event
		running  int
		maxTicks = int(time.Duration(flagSimSeconds*float64(time.Second)) / flagSimDT)
	)
	for tick := 0; tick < maxTicks && outcome == nil; tick++ {
		if sim.Phase() == race.PhaseRunning {
			input(sim, sim.Snapshot(), running)
			running++
		}
		for _, e := range sim.Tick(flagSimDT).Events {
			switch e.(type) {
			case race.RaceFinished, race.GameOver:
				outcome = e
			}
		}
	}

	snap := sim.Snapshot()
	result := storage.RaceResult{
		LevelID:    sim.LevelID(),
		Elapsed:    snap.Elapsed,
		Distance:   snap.Player().Y,
		Difficulty: difficultyName(),
	}
	switch e := outcome.(type) {
	case race.RaceFinished:
		result.Outcome = storage.OutcomeFinished
		result.Place = e.Place
		fmt.Printf("Finished %d of 4 in %.2fs\n", e.Place, e.Elapsed)
	case race.GameOver:
		result.Outcome = storage.OutcomeCaught
		fmt.Printf("Caught after %.2fs, %.0f units from the start\n", e.Elapsed, e.Distance)
	default:
		fmt.Printf("No result after %.0fs (phase %s)\n", flagSimSeconds, snap.Phase)
		return nil
	}
	fmt.Printf("Strategy %s, level %q, %d ticks, hash %016x\n", flagSimStrategy, result.LevelID, snap.Tick, snap.Hash())

	if !flagSimSave {
		return nil
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	id, err := store.SaveResult(result)
	if err != nil {
		return err
	}
	logger.Info("result saved", "id", id)
	return nil
}
