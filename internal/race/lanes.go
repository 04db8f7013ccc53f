package race

import (
	"math"

	"github.com/vovakirdan/pursuit-racer/internal/tween"
)

// requestLaneChange tries to move actor a one lane in dir (-1 left, +1 right).
//
// Positions are projected SwitchDuration ahead. An opponent inside the
// blocked band refuses the move and bounces the mover back; one inside the
// close band is slowed for a moment and the move goes ahead. The lane index
// changes immediately; the x tween only catches the body up.
func (s *Sim) requestLaneChange(a *Actor, dir int) {
	if s.phase != PhaseRunning || a.laneTask.Active() {
		return
	}
	from := a.Lane
	to := from + dir
	if dir == 0 || to < 0 || to >= s.cfg.Track.Lanes {
		return
	}

	lc := s.cfg.Lanes
	ahead := a.Y + a.VY*lc.SwitchDuration

	var slowed []*Actor
	for _, o := range s.opponents {
		if o == a || o.Lane != to {
			continue
		}
		gap := math.Abs(o.Y + o.VY*lc.SwitchDuration - ahead)
		combined := o.Radius + a.Radius
		if gap < combined*lc.BlockedBand {
			s.bounce(a, dir)
			s.emit(LaneChangeBlocked{ActorID: a.ID, From: from, To: to})
			return
		}
		if gap < combined*lc.CloseBand {
			slowed = append(slowed, o)
		}
	}

	ids := make([]int, 0, len(slowed))
	for _, o := range slowed {
		s.slowDown(o)
		ids = append(ids, o.ID)
	}

	a.Lane = to
	if dir < 0 {
		s.setRunnerPhase(a, RunnerShiftingLeft)
	} else {
		s.setRunnerPhase(a, RunnerShiftingRight)
	}

	fromX, toX := a.X, s.cfg.Track.LaneX(to)
	a.laneTask = s.animate(lc.SwitchDuration, func(p float64) {
		a.X = tween.Lerp(fromX, toX, tween.EaseOutQuad(p))
	}, func() {
		if a.Phase.Shifting() && s.phase == PhaseRunning {
			s.setRunnerPhase(a, RunnerRunning)
		}
	})
	s.emit(LaneChangeGranted{ActorID: a.ID, From: from, To: to, Slowed: ids})
}

// bounce nudges a refused mover toward the lane it wanted and back. It holds
// the mover's lane-change slot until it settles.
func (s *Sim) bounce(a *Actor, dir int) {
	lc := s.cfg.Lanes
	fromX := a.X
	a.laneTask = s.animate(lc.BounceDuration, func(p float64) {
		a.X = fromX + float64(dir)*lc.BounceAmplitude*tween.Pulse(p)
	}, func() {
		a.X = fromX
	})
}

// slowDown cuts an opponent's speed for SlowDuration. A new slowdown
// replaces one already running.
func (s *Sim) slowDown(o *Actor) {
	lc := s.cfg.Lanes
	o.slowTask.Cancel()
	o.speedScale = lc.SlowFactor
	o.slowTask = s.after(lc.SlowDuration, func() {
		o.speedScale = 1
	})
}

// resolveSameLane pushes apart the player and any opponent overlapping in
// the player's lane. The one behind is moved to just outside the combined
// radius of the one in front. Skipped while the player is changing lanes.
func (s *Sim) resolveSameLane() {
	p := s.player
	if p.Phase.Shifting() {
		return
	}
	for _, o := range s.opponents {
		if o.Lane != p.Lane {
			continue
		}
		combined := o.Radius + p.Radius
		gap := o.Y - p.Y
		if math.Abs(gap) >= combined {
			continue
		}
		if gap >= 0 {
			p.Y = o.Y - combined
		} else {
			o.Y = p.Y - combined
		}
	}
}
