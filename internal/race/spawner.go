package race

import (
	"github.com/vovakirdan/pursuit-racer/internal/config"
	"github.com/vovakirdan/pursuit-racer/internal/core"
	"github.com/vovakirdan/pursuit-racer/internal/tween"
)

// spawner places power-ups from the level rows. Its timer drains faster
// the faster the player runs, so rows arrive at roughly even distances.
type spawner struct {
	timer float64
	row   int
}

func (sp *spawner) reset(cfg config.PowerUpConfig) {
	sp.timer = cfg.Interval
	sp.row = 0
}

// update reads at most one row per frame and spawns a power-up one view
// height ahead of the player in every marked lane, unless that is past the
// finish line.
func (sp *spawner) update(s *Sim, dt float64) {
	if s.level.Empty() {
		return
	}
	pc := s.cfg.PowerUps
	sp.timer -= dt * s.player.VY / pc.ReferenceSpeed
	if sp.timer > 0 {
		return
	}
	sp.timer += pc.Interval

	cells := s.level.Row(sp.row)
	sp.row++

	track := s.cfg.Track
	y := s.player.Y + track.ViewHeight
	if y >= track.FinishY {
		return
	}
	for lane, on := range cells {
		if on && lane < track.Lanes {
			s.spawnPowerUp(lane, y)
		}
	}
}

func (s *Sim) spawnPowerUp(lane int, y float64) *Actor {
	a := &Actor{
		ID:     s.nextID,
		Kind:   KindPowerUp,
		X:      s.cfg.Track.LaneX(lane),
		Y:      y,
		Lane:   lane,
		Radius: s.cfg.PowerUps.Radius,
	}
	s.nextID++
	s.actors = append(s.actors, a)
	return a
}

// collectPowerUps boosts the player for every power-up it touches.
func (s *Sim) collectPowerUps() {
	p := s.player
	for _, a := range s.actors {
		if a.Kind != KindPowerUp || a.Picked {
			continue
		}
		if core.Dist(p.X, p.Y, a.X, a.Y) >= p.Radius+a.Radius {
			continue
		}

		a := a
		a.Picked = true
		p.VY = min(p.VY+s.cfg.Player.Boost, s.cfg.Player.MaxSpeed)
		s.emit(PowerUpCollected{PowerUpID: a.ID, Lane: a.Lane, Speed: p.VY})
		a.motion = s.animate(s.cfg.PowerUps.PickupDuration, func(t float64) {
			a.Pickup = tween.EaseOutQuad(t)
		}, func() {
			a.removed = true
		})
	}
}

// prunePowerUps drops finished pickups and power-ups left behind the view.
func (s *Sim) prunePowerUps() {
	behind := s.player.Y - s.cfg.Track.ViewHeight
	kept := s.actors[:0]
	for _, a := range s.actors {
		if a.Kind == KindPowerUp && (a.removed || (!a.Picked && a.Y < behind)) {
			a.motion.Cancel()
			continue
		}
		kept = append(kept, a)
	}
	clear(s.actors[len(kept):])
	s.actors = kept
}
