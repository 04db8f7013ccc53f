package race

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countEvents[T Event](events []Event) int {
	n := 0
	for _, e := range events {
		if _, ok := e.(T); ok {
			n++
		}
	}
	return n
}

func TestSameLanePushesBehindActor(t *testing.T) {
	s := newRunningSim(t)
	p := s.player
	o := s.opponents[2]
	o.Lane = p.Lane
	combined := o.Radius + p.Radius

	p.Y = 100
	o.Y = p.Y + 0.5*combined
	s.resolveSameLane()
	assert.Equal(t, o.Y-combined, p.Y)

	// Opponent behind gets pushed instead
	o.Y = p.Y - 0.5*combined
	s.resolveSameLane()
	assert.Equal(t, p.Y-combined, o.Y)
}

func TestSameLaneSkippedWhileShifting(t *testing.T) {
	s := newRunningSim(t)
	p := s.player
	o := s.opponents[2]
	o.Lane = p.Lane
	p.Y = 100
	o.Y = 103
	p.Phase = RunnerShiftingLeft

	s.resolveSameLane()
	assert.Equal(t, 100.0, p.Y)
	assert.Equal(t, 103.0, o.Y)
}

// laneSetup parks opponent A in lane 0 relative to the player in lane 1.
func laneSetup(t *testing.T, offset float64) (*Sim, *Actor) {
	t.Helper()
	s := newRunningSim(t)
	p := s.player
	p.Y, p.VY = 200, 50
	for _, o := range s.opponents {
		o.Lane = 2
		o.Y = -1000
	}
	o := s.opponents[0]
	o.Lane = 0
	o.Y, o.VY = p.Y+offset, 50
	s.drain()
	return s, o
}

func TestLaneChangeBlocked(t *testing.T) {
	s, _ := laneSetup(t, 3)
	p := s.player
	x := p.X

	s.requestLaneChange(p, -1)

	assert.Equal(t, 1, p.Lane)
	assert.Equal(t, 1, countEvents[LaneChangeBlocked](s.outbox))
	assert.Zero(t, countEvents[LaneChangeGranted](s.outbox))

	// The bounce holds the lane slot; a second request is ignored
	s.requestLaneChange(p, -1)
	assert.Equal(t, 1, countEvents[LaneChangeBlocked](s.outbox), "retry during bounce")

	// Bounce leans toward the blocked lane and settles back
	s.sched.Tick(s.cfg.Lanes.BounceDuration / 2)
	assert.Less(t, p.X, x)
	s.sched.Tick(s.cfg.Lanes.BounceDuration)
	assert.Equal(t, x, p.X)
}

func TestLaneChangeCloseSlowsOpponent(t *testing.T) {
	s, o := laneSetup(t, 15)
	p := s.player

	s.requestLaneChange(p, -1)

	require.Equal(t, 0, p.Lane)
	assert.Equal(t, s.cfg.Lanes.SlowFactor, o.speedScale)
	assert.True(t, o.slowTask.Active())

	require.NotEmpty(t, s.outbox)
	granted, ok := s.outbox[len(s.outbox)-1].(LaneChangeGranted)
	require.True(t, ok, "last event = %+v", s.outbox[len(s.outbox)-1])
	assert.Equal(t, []int{o.ID}, granted.Slowed)

	s.sched.Tick(s.cfg.Lanes.SlowDuration)
	assert.Equal(t, 1.0, o.speedScale, "slowdown expires")
}

func TestLaneChangeGranted(t *testing.T) {
	s, _ := laneSetup(t, 100)
	p := s.player
	target := s.cfg.Track.LaneX(0)

	s.requestLaneChange(p, -1)

	// Lane index changes before the body arrives
	require.Equal(t, 0, p.Lane)
	require.NotEqual(t, target, p.X)
	assert.Equal(t, RunnerShiftingLeft, p.Phase)

	// One change in flight at a time
	s.requestLaneChange(p, 1)
	assert.Equal(t, 0, p.Lane)

	s.sched.Tick(s.cfg.Lanes.SwitchDuration)
	assert.Equal(t, target, p.X)
	assert.Equal(t, RunnerRunning, p.Phase)
	assert.Equal(t, 1, countEvents[LaneChangeGranted](s.outbox))
}

func TestOutOfRangeLaneIgnored(t *testing.T) {
	s := newRunningSim(t)
	p := s.player
	width := s.cfg.Track.LaneWidth

	for _, x := range []float64{-10 * width, 5 * width, math.NaN(), math.Inf(1), 1e300} {
		s.TouchDown(x, 0)
		assert.Equal(t, 1, p.Lane, "TouchDown(%v)", x)
		assert.False(t, p.laneTask.Active(), "TouchDown(%v)", x)
	}

	// Already in the edge lane: a further move is rejected
	p.Lane = 0
	s.requestLaneChange(p, -1)
	assert.Equal(t, 0, p.Lane)
	assert.False(t, p.laneTask.Active())

	p.Lane = s.cfg.Track.Lanes - 1
	s.Shift(1)
	assert.Equal(t, s.cfg.Track.Lanes-1, p.Lane)
}

func TestTouchMovesOneLaneTowardTarget(t *testing.T) {
	s := newRunningSim(t)
	p := s.player
	p.Lane = 0
	p.X = s.cfg.Track.LaneX(0)
	for _, o := range s.opponents {
		o.Y = -1000
	}

	// Rightmost lane requested from the leftmost: one step only
	s.TouchDown(s.cfg.Track.LaneX(2), 0)
	assert.Equal(t, 1, p.Lane)

	s.sched.Tick(s.cfg.Lanes.SwitchDuration)
	s.TouchDown(s.cfg.Track.LaneX(1)+4, 0) // Rounds to the current lane
	assert.False(t, p.laneTask.Active(), "touch in the current lane started a change")
}

func TestLaneChangeIgnoredOutsideRunning(t *testing.T) {
	s := newSim(t)
	s.Shift(-1)
	s.TouchDown(-30, 0)
	assert.Equal(t, s.cfg.Track.CenterLane(), s.player.Lane, "lane changed during %s", s.Phase())
}
