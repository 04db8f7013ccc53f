package race

import (
	"math"

	"github.com/vovakirdan/pursuit-racer/internal/config"
	"github.com/vovakirdan/pursuit-racer/internal/core"
)

// camera follows the player with a speed-dependent look-ahead.
type camera struct {
	y         float64 // World y of the view center
	lookAhead float64
	baseline  float64
	zoom      float64
}

func (c *camera) reset(cfg config.CameraConfig, playerY float64) {
	c.lookAhead = 0
	c.baseline = cfg.Baseline
	c.zoom = 1
	c.y = c.baseline + playerY
}

// update moves the look-ahead toward a target proportional to how far the
// player is above minimum speed. It rises slowly and falls quickly.
func (c *camera) update(cfg config.CameraConfig, pc config.PlayerConfig, speed, playerY, dt float64) {
	frac := 0.0
	if span := pc.MaxSpeed - pc.MinSpeed; span > 0 {
		frac = core.ClampF((speed-pc.MinSpeed)/span, 0, 1)
	}
	target := cfg.MaxLookAhead * frac

	rate := cfg.FallRate
	if target > c.lookAhead {
		rate = cfg.RiseRate
	}
	c.lookAhead += (target - c.lookAhead) * math.Min(1, rate*dt)
	c.y = c.baseline + c.lookAhead + playerY
}
