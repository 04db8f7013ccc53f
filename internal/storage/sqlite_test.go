package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func saveAll(t *testing.T, store *Store, results ...RaceResult) {
	t.Helper()
	for _, r := range results {
		_, err := store.SaveResult(r)
		require.NoError(t, err)
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	// Parent directories are created
	assert.FileExists(t, dbPath)
}

func TestStoreBestTimes(t *testing.T) {
	store := openTestStore(t)

	saveAll(t, store,
		RaceResult{LevelID: "classic", Outcome: OutcomeFinished, Place: 2, Elapsed: 50},
		RaceResult{LevelID: "classic", Outcome: OutcomeFinished, Place: 1, Elapsed: 61.5},
		RaceResult{LevelID: "classic", Outcome: OutcomeFinished, Place: 1, Elapsed: 58.2},
		RaceResult{LevelID: "classic", Outcome: OutcomeCaught, Elapsed: 12},
		RaceResult{LevelID: "zigzag", Outcome: OutcomeFinished, Place: 1, Elapsed: 40},
	)

	best, err := store.BestTimes("classic", 10)
	require.NoError(t, err)
	require.Len(t, best, 3, "only finished races")

	// Place first, then time
	assert.Equal(t, 58.2, best[0].Elapsed)
	assert.Equal(t, 61.5, best[1].Elapsed)
	assert.Equal(t, 2, best[2].Place)
	assert.Equal(t, OutcomeFinished, best[0].Outcome)

	limited, err := store.BestTimes("classic", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStoreBestTime(t *testing.T) {
	store := openTestStore(t)

	_, err := store.BestTime("classic")
	assert.ErrorIs(t, err, ErrNoResults)

	// A loss does not count as a best time
	saveAll(t, store, RaceResult{LevelID: "classic", Outcome: OutcomeFinished, Place: 3, Elapsed: 30})
	_, err = store.BestTime("classic")
	assert.ErrorIs(t, err, ErrNoResults)

	saveAll(t, store, RaceResult{LevelID: "classic", Outcome: OutcomeFinished, Place: 1, Elapsed: 70})
	best, err := store.BestTime("classic")
	require.NoError(t, err)
	assert.Equal(t, 70.0, best)
}

func TestStoreHistory(t *testing.T) {
	store := openTestStore(t)

	for i, level := range []string{"classic", "zigzag", "sparse"} {
		saveAll(t, store, RaceResult{
			LevelID:    level,
			Outcome:    OutcomeCaught,
			Elapsed:    float64(i + 1),
			Distance:   100,
			Difficulty: "hard",
		})
	}

	history, err := store.History(2)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Newest first
	assert.Equal(t, "sparse", history[0].LevelID)
	assert.Equal(t, "zigzag", history[1].LevelID)
	assert.Equal(t, "hard", history[0].Difficulty)
	assert.Equal(t, 100.0, history[0].Distance)
	assert.False(t, history[0].CreatedAt.IsZero(), "CreatedAt not set")
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats("classic")
	require.NoError(t, err)
	assert.Zero(t, stats.Races)
	assert.Zero(t, stats.BestTime)

	saveAll(t, store,
		RaceResult{LevelID: "classic", Outcome: OutcomeFinished, Place: 1, Elapsed: 60},
		RaceResult{LevelID: "classic", Outcome: OutcomeFinished, Place: 3, Elapsed: 80},
		RaceResult{LevelID: "classic", Outcome: OutcomeCaught, Elapsed: 10},
	)

	stats, err = store.Stats("classic")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Races)
	assert.Equal(t, 2, stats.Finished)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 60.0, stats.BestTime)
	assert.Equal(t, 50.0, stats.AverageTime)
}

func TestStoreClearResults(t *testing.T) {
	store := openTestStore(t)

	saveAll(t, store,
		RaceResult{LevelID: "classic", Outcome: OutcomeCaught, Elapsed: 5},
		RaceResult{LevelID: "zigzag", Outcome: OutcomeCaught, Elapsed: 5},
	)

	require.NoError(t, store.ClearResults("classic"))

	history, err := store.History(10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "zigzag", history[0].LevelID)
}

func TestStorePersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store1, err := Open(dbPath)
	require.NoError(t, err)
	saveAll(t, store1, RaceResult{LevelID: "classic", Outcome: OutcomeFinished, Place: 1, Elapsed: 42})
	store1.Close()

	store2, err := Open(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	best, err := store2.BestTime("classic")
	require.NoError(t, err)
	assert.Equal(t, 42.0, best, "best time survives reopening")
}
