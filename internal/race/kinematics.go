package race

import (
	"math"

	"github.com/vovakirdan/pursuit-racer/internal/core"
	"github.com/vovakirdan/pursuit-racer/internal/tween"
)

// updatePlayer applies the player's speed curve. Until the player first
// reaches minimum speed it accelerates; after that it only loses speed and
// stays within [MinSpeed, MaxSpeed].
func (s *Sim) updatePlayer(dt float64) {
	p := s.player
	pc := s.cfg.Player

	if !s.started {
		p.VY += pc.StartAccel * dt
		if p.VY >= pc.MinSpeed {
			s.started = true
		}
	} else {
		p.VY -= pc.Decel * dt
	}

	if s.started {
		p.VY = core.ClampF(p.VY, pc.MinSpeed, pc.MaxSpeed)
	}
}

// updateOpponent sets an opponent's speed from its ramp or deceleration
// tween and any active slowdown.
func (s *Sim) updateOpponent(o *Actor) {
	if o.Phase == RunnerStanding {
		o.VY = 0
		return
	}
	o.VY = o.cruise * o.speedScale
}

// checkOpponentFinish starts the stop sequence for opponents that crossed
// the line this frame.
func (s *Sim) checkOpponentFinish() {
	for _, o := range s.opponents {
		if o.finished || o.Y < s.cfg.Track.FinishY {
			continue
		}
		o := o
		o.finished = true
		from := o.cruise

		o.motion.Cancel()
		o.motion = s.animate(s.cfg.Timing.OpponentFinishDecel, func(p float64) {
			o.cruise = tween.Lerp(from, 0, tween.Linear(p))
			if p > 0.95 && o.Phase != RunnerStanding {
				o.cruise = 0
				o.VY = 0
				s.setRunnerPhase(o, RunnerStanding)
			}
		}, nil)
	}
}

// chaserTarget is the speed the chaser tries to hold for a given player
// speed.
func (s *Sim) chaserTarget(playerSpeed float64) float64 {
	cc := s.cfg.Chaser
	return core.ClampF(cc.SpeedFactor*playerSpeed+cc.SpeedOffset, cc.MinSpeed, cc.MaxSpeed)
}

// updateChaser eases the chaser toward its target speed. Slowing down, or
// closing in before it is on screen, corrects faster the smaller the gap.
// Speeding up corrects faster the larger the gap and the longer the race.
func (s *Sim) updateChaser(dt float64) {
	c, p := s.chaser, s.player
	cc := s.cfg.Chaser

	delta := s.chaserTarget(p.VY) - c.VY
	gap := math.Max(p.Y-c.Y, cc.MinGap)

	var rate float64
	if delta < 0 || !s.entered {
		rate = cc.CloseRate / gap
	} else {
		rate = cc.FarRate * gap * s.difficulty.Scale(s.elapsed)
	}
	c.VY += delta * math.Min(1, rate*dt)
}

// clampChaser latches the chaser as entered once it reaches the camera's
// trailing edge, then keeps it between the leading edge and MaxGap behind
// the player.
func (s *Sim) clampChaser() {
	c := s.chaser
	half := s.cfg.Track.ViewHeight / 2

	if !s.entered && c.Y >= s.camera.y-half {
		s.entered = true
	}
	if !s.entered {
		return
	}
	c.Y = core.ClampF(c.Y, s.player.Y-s.cfg.Chaser.MaxGap, s.camera.y+half)
}

// chaserCatches is an approximate vertical overlap test. The player's home
// lane gets a wider near-miss allowance than the outer lanes.
func (s *Sim) chaserCatches() bool {
	c, p := s.chaser, s.player
	cc := s.cfg.Chaser

	factor := cc.OtherLaneFactor
	if p.Lane == s.cfg.Track.CenterLane() {
		factor = cc.HomeLaneFactor
	}
	return p.Y-c.Y < (c.Radius+p.Radius)*factor
}

// integrate moves every actor by its velocity. Power-ups are static.
func (s *Sim) integrate(dt float64) {
	for _, a := range s.actors {
		if a.Kind == KindPowerUp {
			continue
		}
		a.X += a.VX * dt
		a.Y += a.VY * dt
	}
}
