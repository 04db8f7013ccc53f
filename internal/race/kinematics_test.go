package race

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/pursuit-racer/internal/level"
)

func TestPlayerRampLatchesStarted(t *testing.T) {
	s := newRunningSim(t)
	pc := s.cfg.Player

	require.False(t, s.started, "player should not have started at the gun")
	s.updatePlayer(0.5)
	assert.Equal(t, pc.StartAccel*0.5, s.player.VY)

	s.updatePlayer(1)
	require.True(t, s.started, "started should latch once min speed is reached")
	assert.GreaterOrEqual(t, s.player.VY, pc.MinSpeed)
	assert.LessOrEqual(t, s.player.VY, pc.MaxSpeed)

	// Once started the player only decelerates
	s.player.VY = 60
	s.updatePlayer(1)
	assert.Equal(t, 60-pc.Decel, s.player.VY)
	s.updatePlayer(1000)
	assert.Equal(t, pc.MinSpeed, s.player.VY)
}

func TestPlayerSpeedStaysInBounds(t *testing.T) {
	s := newRunningSim(t, WithLevel(level.ParseString("111\n.1.\n1.1\n", 3)))
	pc := s.cfg.Player
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 5000 && s.Phase() == PhaseRunning; i++ {
		dt := time.Duration(rng.Int63n(int64(200 * time.Millisecond)))
		if i%50 == 0 {
			dt = 0
		}
		if i%13 == 0 {
			s.Shift(rng.Intn(3) - 1)
		}
		res := s.Tick(dt)
		if res.Phase != PhaseRunning || !s.started {
			continue
		}
		v := s.player.VY
		require.True(t, v >= pc.MinSpeed && v <= pc.MaxSpeed, "tick %d: VY = %v outside [%v, %v]", i, v, pc.MinSpeed, pc.MaxSpeed)
	}
}

func TestChaserCloseGapSpeedsUpSlowly(t *testing.T) {
	s := newRunningSim(t)
	dt := 1.0 / 60
	s.started = true
	s.entered = true
	s.player.VY = 60
	s.chaser.VY = 40
	s.chaser.Y = s.player.Y - 2

	delta := s.chaserTarget(s.player.VY) - s.chaser.VY
	require.Positive(t, delta, "target should exceed chaser speed")

	s.updateChaser(dt)
	correction := s.chaser.VY - 40

	closeRule := delta * math.Min(1, s.cfg.Chaser.CloseRate/2*dt)
	assert.Positive(t, correction, "chaser should still speed up")
	assert.Less(t, correction, closeRule/100, "correction bounded by the gap-proportional rate")
}

func TestChaserCatchesUpBeforeEntering(t *testing.T) {
	s := newRunningSim(t)
	dt := 1.0 / 60
	s.player.VY = 60
	s.chaser.VY = 40
	s.chaser.Y = s.player.Y - 80

	delta := s.chaserTarget(s.player.VY) - s.chaser.VY
	s.updateChaser(dt)

	want := 40 + delta*math.Min(1, s.cfg.Chaser.CloseRate/80*dt)
	assert.InDelta(t, want, s.chaser.VY, 1e-9)
}

func TestChaserSlowsDownFasterWhenClose(t *testing.T) {
	correction := func(gap float64) float64 {
		s := newRunningSim(t)
		s.entered = true
		s.player.VY = 40
		s.chaser.VY = 90
		s.chaser.Y = s.player.Y - gap
		s.updateChaser(1.0 / 60)
		return 90 - s.chaser.VY
	}

	near, far := correction(5), correction(50)
	assert.Greater(t, near, far, "slowing near should exceed slowing far")
}

func TestChaserTargetClamped(t *testing.T) {
	s := newRunningSim(t)
	cc := s.cfg.Chaser

	assert.Equal(t, cc.MinSpeed, s.chaserTarget(0))
	assert.Equal(t, cc.MaxSpeed, s.chaserTarget(1000))
}

func TestChaserClampedToWindow(t *testing.T) {
	s := newRunningSim(t)
	half := s.cfg.Track.ViewHeight / 2

	// Not entered yet: no clamp, even far behind
	s.chaser.Y = s.player.Y - 500
	s.clampChaser()
	require.False(t, s.entered, "chaser entered too early")
	require.Equal(t, s.player.Y-500, s.chaser.Y, "chaser clamped before entering")

	s.chaser.Y = s.camera.y - half + 1
	s.clampChaser()
	require.True(t, s.entered, "chaser should enter at the trailing edge")

	s.chaser.Y = s.player.Y - 10*s.cfg.Chaser.MaxGap
	s.clampChaser()
	assert.Equal(t, s.player.Y-s.cfg.Chaser.MaxGap, s.chaser.Y, "held at max gap")

	s.chaser.Y = s.camera.y + 10*half
	s.clampChaser()
	assert.Equal(t, s.camera.y+half, s.chaser.Y, "held at the leading edge")
}

func TestChaserNearMissOnlyInHomeLane(t *testing.T) {
	s := newRunningSim(t)
	cc := s.cfg.Chaser
	combined := cc.Radius + s.player.Radius
	// Between the outer-lane and home-lane thresholds
	gap := combined * (cc.OtherLaneFactor + cc.HomeLaneFactor) / 2
	s.chaser.Y = s.player.Y - gap

	assert.True(t, s.chaserCatches(), "home lane should catch inside the wider threshold")
	s.player.Lane = 0
	assert.False(t, s.chaserCatches(), "outer lane should miss at the same gap")
}

func TestOpponentsRampAndStop(t *testing.T) {
	s := newRunningSim(t)
	ramp := s.cfg.Timing.OpponentRampUp

	// The ramp is linear: half way through, half the cruising speed
	s.sched.Tick(0)
	s.sched.Tick(ramp / 2)
	for _, o := range s.opponents {
		s.updateOpponent(o)
		assert.InDelta(t, o.target/2, o.VY, 1e-9, o.Name())
	}

	for i := 0; i < int(ramp*60)+2; i++ {
		s.Tick(frame)
	}
	for _, o := range s.opponents {
		assert.Equal(t, o.target, o.VY, "%s cruising", o.Name())
	}

	o := s.opponents[0]
	o.Y = s.cfg.Track.FinishY
	for i := 0; i < int(s.cfg.Timing.OpponentFinishDecel*60)+2; i++ {
		s.Tick(frame)
		require.Equal(t, PhaseRunning, s.Phase(), "race ended early")
	}
	assert.Equal(t, RunnerStanding, o.Phase)
	assert.Zero(t, o.VY)
}

func TestCameraLookAhead(t *testing.T) {
	s := newRunningSim(t)
	cam, pc := s.cfg.Camera, s.cfg.Player
	var c camera
	c.reset(cam, 0)

	// Rising is slower than falling
	c.update(cam, pc, pc.MaxSpeed, 0, 0.1)
	rise := c.lookAhead
	require.True(t, rise > 0 && rise < cam.MaxLookAhead, "look-ahead after rise = %v", rise)

	for i := 0; i < 600; i++ {
		c.update(cam, pc, pc.MaxSpeed, 0, 0.1)
	}
	assert.InDelta(t, cam.MaxLookAhead, c.lookAhead, 1e-6)

	c.update(cam, pc, pc.MinSpeed, 0, 0.1)
	fall := cam.MaxLookAhead - c.lookAhead
	assert.Greater(t, fall, rise, "falling is faster than rising")

	c.update(cam, pc, pc.MinSpeed, 250, 0.1)
	assert.Equal(t, cam.Baseline+c.lookAhead+250, c.y)
}
