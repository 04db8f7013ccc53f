package race

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/pursuit-racer/internal/config"
)

const frame = time.Second / 60

func newSim(t *testing.T, opts ...Option) *Sim {
	t.Helper()
	s, err := New(config.DefaultRaceConfig(), opts...)
	require.NoError(t, err)
	return s
}

// runUntil ticks until the sim reaches phase, failing after maxTicks.
func runUntil(t *testing.T, s *Sim, phase GamePhase, maxTicks int) []Event {
	t.Helper()
	var events []Event
	for i := 0; i < maxTicks; i++ {
		res := s.Tick(frame)
		events = append(events, res.Events...)
		if res.Phase == phase {
			return events
		}
	}
	require.FailNowf(t, "phase not reached", "%s not reached after %d ticks (now %s)", phase, maxTicks, s.Phase())
	return nil
}

// newRunningSim returns a sim that has just entered Running.
func newRunningSim(t *testing.T, opts ...Option) *Sim {
	t.Helper()
	s := newSim(t, append([]Option{WithoutTutorial()}, opts...)...)
	runUntil(t, s, PhaseRunning, 2000)
	return s
}

func phasesOf(events []Event) []GamePhase {
	var out []GamePhase
	for _, e := range events {
		if pc, ok := e.(PhaseChanged); ok {
			out = append(out, pc.Phase)
		}
	}
	return out
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultRaceConfig()
	cfg.Timing.Title = 0
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestFirstPlayPhaseSequence(t *testing.T) {
	s := newSim(t)
	require.Equal(t, PhaseTitle, s.Phase())

	events := runUntil(t, s, PhaseRunning, 2000)

	assert.Equal(t, []GamePhase{PhaseTitle, PhaseSetup, PhaseReady, PhaseRunning}, phasesOf(events))

	var countdown []int
	shown, dismissed := 0, 0
	for _, e := range events {
		switch ev := e.(type) {
		case Countdown:
			countdown = append(countdown, ev.Remaining)
		case TutorialShown:
			shown++
		case TutorialDismissed:
			dismissed++
			assert.False(t, ev.ByPlayer, "tutorial should have timed out")
		}
	}
	assert.Equal(t, []int{3, 2, 1, 0}, countdown)
	assert.Equal(t, 1, shown)
	assert.Equal(t, 1, dismissed)

	for _, r := range s.runners() {
		assert.Equal(t, RunnerRunning, r.Phase, r.Name())
	}
}

func TestTouchDismissesTutorial(t *testing.T) {
	s := newSim(t)
	for i := 0; i < 2000 && !s.Snapshot().TutorialVisible; i++ {
		s.Tick(frame)
	}
	require.True(t, s.Snapshot().TutorialVisible, "tutorial never shown")

	s.TouchDown(0, 0)

	assert.False(t, s.Snapshot().TutorialVisible)
	assert.Equal(t, PhaseReady, s.Phase())

	// Events raised by input arrive with the next tick
	res := s.Tick(0)
	assert.Contains(t, res.Events, Event(TutorialDismissed{ByPlayer: true}))
}

func TestEntranceEndsStanding(t *testing.T) {
	s := newSim(t)
	runUntil(t, s, PhaseSetup, 500)

	for _, r := range s.runners() {
		assert.Equal(t, RunnerEntering, r.Phase, r.Name())
	}

	seconds := s.cfg.Timing.Entrance
	for i := 0; i < int(seconds*60)+2; i++ {
		s.Tick(frame)
	}
	for _, r := range s.runners() {
		assert.Equal(t, RunnerStanding, r.Phase, r.Name())
		assert.Equal(t, r.start.y, r.Y, "%s on its start mark", r.Name())
	}
}

func TestReplayNotAllowedBeforeEnd(t *testing.T) {
	s := newRunningSim(t)
	assert.ErrorIs(t, s.Replay(), ErrReplayNotAllowed)
	assert.Equal(t, PhaseRunning, s.Phase())
}

func TestReplayRestoresInitialState(t *testing.T) {
	s := newSim(t, WithoutTutorial())
	runUntil(t, s, PhaseReady, 1000)
	initial := s.Snapshot().Actors

	runUntil(t, s, PhaseRunning, 1000)
	// With no power-ups the chaser always wins
	runUntil(t, s, PhaseFail, 60*120)

	require.NoError(t, s.Replay())
	require.Equal(t, PhaseReady, s.Phase())

	assert.Equal(t, initial, s.Snapshot().Actors, "actors after replay differ from race start")
	assert.Zero(t, s.Score())
	assert.Zero(t, s.Place())

	// The countdown runs again after the replay delay
	runUntil(t, s, PhaseRunning, 1000)
}

func TestScoreFrozenAfterEnd(t *testing.T) {
	s := newRunningSim(t)
	runUntil(t, s, PhaseFail, 60*120)

	score := s.Score()
	require.Positive(t, score)
	for i := 0; i < 120; i++ {
		s.Tick(frame)
	}
	assert.Equal(t, score, s.Score(), "score moved after fail")
}

func TestFailIsIdempotent(t *testing.T) {
	s := newRunningSim(t)
	s.chaser.Y = s.player.Y - 1
	res := s.Tick(frame)
	require.Equal(t, PhaseFail, res.Phase)
	assert.Equal(t, 1, countEvents[GameOver](res.Events))

	before := s.Snapshot().Hash()
	s.fail()
	s.fail()
	s.publish()

	assert.Equal(t, before, s.Snapshot().Hash(), "second fail changed state")
	assert.Empty(t, s.outbox, "second fail emitted events")
	assert.Equal(t, PhaseFail, s.Tick(frame).Phase, "fail should be sticky")
}

func TestFailStopsPlayerAndChaser(t *testing.T) {
	s := newRunningSim(t)
	s.chaser.Y = s.player.Y - 1
	s.Tick(frame)

	assert.Zero(t, s.player.VY)
	assert.Zero(t, s.chaser.VY)
	assert.Equal(t, RunnerDying, s.player.Phase)

	seconds := max(s.cfg.Timing.Dying, s.cfg.Camera.ZoomDuration)
	for i := 0; i < int(seconds*60)+2; i++ {
		s.Tick(frame)
	}
	snap := s.Snapshot()
	assert.Equal(t, RunnerDead, snap.Player().Phase)
	assert.Equal(t, s.cfg.Camera.FailZoom, snap.Zoom)
}

// crossFinish puts the player just short of the line with the chaser well
// behind, so the next tick is a clean finish.
func crossFinish(s *Sim) {
	p := s.player
	p.Y = s.cfg.Track.FinishY - 0.1
	p.VY = s.cfg.Player.MinSpeed
	s.started = true
	s.chaser.Y = p.Y - 50
	s.chaser.VY = 0
}

func TestFinishingPlaces(t *testing.T) {
	tests := []struct {
		name   string
		behind int // Opponents placed behind the player
		want   int
		pose   RunnerPhase
	}{
		{"first", 3, 1, RunnerStanding},
		{"second", 2, 2, RunnerStanding},
		{"last", 0, 4, RunnerCrouched},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newRunningSim(t)
			crossFinish(s)
			for i, o := range s.opponents {
				o.Lane = 0
				o.Y = s.player.Y + 100
				if i < tc.behind {
					o.Y = s.player.Y - 20
				}
			}

			events := runUntil(t, s, PhaseSuccess, 2)
			require.Equal(t, tc.want, s.Place())
			require.Equal(t, 1, countEvents[RaceFinished](events))
			for _, e := range events {
				if rf, ok := e.(RaceFinished); ok {
					assert.Equal(t, tc.want, rf.Place)
				}
			}

			for i := 0; i < int(s.cfg.Timing.WinStop*60)+5; i++ {
				s.Tick(frame)
			}
			assert.Zero(t, s.player.VY)
			assert.Zero(t, s.chaser.VY)
			assert.Equal(t, tc.pose, s.player.Phase)
		})
	}
}

func TestReplayAfterFinish(t *testing.T) {
	s := newRunningSim(t)
	crossFinish(s)
	runUntil(t, s, PhaseSuccess, 2)

	require.NoError(t, s.Replay())
	assert.Zero(t, s.Place())
	assert.Equal(t, s.cfg.Track.CenterLane(), s.player.Lane)

	events := runUntil(t, s, PhaseRunning, 1000)
	assert.Equal(t, []int{3, 2, 1, 0}, countdownsOf(events))
}

func countdownsOf(events []Event) []int {
	var out []int
	for _, e := range events {
		if c, ok := e.(Countdown); ok {
			out = append(out, c.Remaining)
		}
	}
	return out
}

func TestCaughtBeatsFinish(t *testing.T) {
	t.Run("same tick", func(t *testing.T) {
		s := newRunningSim(t)
		crossFinish(s)
		s.chaser.Y = s.player.Y - 5

		assert.Equal(t, PhaseFail, s.Tick(frame).Phase)
		assert.Zero(t, s.Place())
	})

	t.Run("finish one tick later", func(t *testing.T) {
		s := newRunningSim(t)
		crossFinish(s)
		s.player.Y -= 1 // Crosses on the second tick
		s.chaser.Y = s.player.Y - 5

		require.Equal(t, PhaseFail, s.Tick(frame).Phase)
		s.player.Y = s.cfg.Track.FinishY + 1
		res := s.Tick(frame)
		assert.Equal(t, PhaseFail, res.Phase)
		assert.Zero(t, countEvents[RaceFinished](res.Events), "RaceFinished sent after fail")
	})
}

func TestListenerReceivesTickEvents(t *testing.T) {
	var got []Event
	s := newSim(t, WithListener(ListenerFunc(func(e Event) {
		got = append(got, e)
	})))

	var returned []Event
	for i := 0; i < 300; i++ {
		returned = append(returned, s.Tick(frame).Events...)
	}

	require.NotEmpty(t, got, "listener received no events")
	assert.Equal(t, returned, got)
}

func TestScoreEventsEveryTenth(t *testing.T) {
	s := newRunningSim(t)

	scores := 0
	for i := 0; i < 60; i++ {
		scores += countEvents[ScoreChanged](s.Tick(frame).Events)
	}
	// One second of racing crosses ten tenths, give or take float rounding
	assert.InDelta(t, 10, scores, 1)
}

func TestSimDeterminism(t *testing.T) {
	run := func() []uint64 {
		s := newSim(t, WithLevel(nil))
		hashes := make([]uint64, 0, 1500)
		for i := 0; i < 1500; i++ {
			switch {
			case i%97 == 0:
				s.Shift(-1)
			case i%61 == 0:
				s.Shift(1)
			case i%45 == 0:
				s.TouchDown(30, 0)
			}
			s.Tick(frame)
			hashes = append(hashes, s.Snapshot().Hash())
		}
		return hashes
	}

	assert.Equal(t, run(), run())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newRunningSim(t)
	snap := s.Snapshot()
	y := snap.Player().Y

	for i := 0; i < 30; i++ {
		s.Tick(frame)
	}

	assert.Equal(t, y, snap.Player().Y, "published snapshot changed after later ticks")
	assert.Greater(t, s.Snapshot().Player().Y, y, "new snapshot did not advance")
}
