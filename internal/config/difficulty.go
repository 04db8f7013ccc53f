package config

import "math"

// DifficultyManager calculates the chaser's difficulty ramp from race time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the difficulty level (0.0 to 1.0) after elapsed race seconds.
// It saturates once elapsed reaches Progression.MaxAt.
func (d *DifficultyManager) Level(elapsed float64) float64 {
	if !d.IsEnabled() || d.cfg.Progression.Type != "time" {
		return d.initialLevel
	}

	maxAt := d.cfg.Progression.MaxAt
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	progress := clampF(elapsed/maxAt, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Scale returns the multiplier applied to the chaser's speed-up rate.
func (d *DifficultyManager) Scale(elapsed float64) float64 {
	return 1.0 + d.Level(elapsed)*d.cfg.Scaling.SpeedMultiplier
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	if math.IsNaN(val) {
		return min
	}
	return math.Max(min, math.Min(max, val))
}
