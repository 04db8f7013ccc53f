// Package config provides YAML-based race configuration loading and
// difficulty management.
package config

import (
	"errors"
	"fmt"
)

// RaceConfig contains every tunable of the race simulation.
// Distances are world units, speeds are units per second and durations
// are seconds.
type RaceConfig struct {
	Track      TrackConfig      `yaml:"track"`
	Player     PlayerConfig     `yaml:"player"`
	Opponents  []OpponentConfig `yaml:"opponents"`
	Chaser     ChaserConfig     `yaml:"chaser"`
	Lanes      LaneConfig       `yaml:"lanes"`
	PowerUps   PowerUpConfig    `yaml:"powerups"`
	Camera     CameraConfig     `yaml:"camera"`
	Timing     TimingConfig     `yaml:"timing"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// TrackConfig defines the track geometry.
type TrackConfig struct {
	Lanes      int     `yaml:"lanes"`
	LaneWidth  float64 `yaml:"lane_width"`
	FinishY    float64 `yaml:"finish_y"`
	ViewHeight float64 `yaml:"view_height"` // Visible world height, also the power-up spawn distance
}

// CenterLane returns the player's home lane.
func (t TrackConfig) CenterLane() int {
	return t.Lanes / 2
}

// LaneX returns the horizontal world position of a lane's center.
func (t TrackConfig) LaneX(lane int) float64 {
	return float64(lane-t.CenterLane()) * t.LaneWidth
}

// PlayerConfig defines the player's speed curve.
type PlayerConfig struct {
	Radius     float64 `yaml:"radius"`
	MinSpeed   float64 `yaml:"min_speed"`
	MaxSpeed   float64 `yaml:"max_speed"`
	StartAccel float64 `yaml:"start_accel"` // Ramp-up acceleration before reaching MinSpeed
	Decel      float64 `yaml:"decel"`       // Speed lost per second once started
	Boost      float64 `yaml:"boost"`       // Instant speed gain per power-up
}

// OpponentConfig defines one AI runner.
type OpponentConfig struct {
	Name   string  `yaml:"name"`
	Lane   int     `yaml:"lane"`
	StartY float64 `yaml:"start_y"`
	Speed  float64 `yaml:"speed"` // Cruising speed
	Radius float64 `yaml:"radius"`
}

// ChaserConfig defines the pursuing object.
type ChaserConfig struct {
	Radius          float64 `yaml:"radius"`
	StartGap        float64 `yaml:"start_gap"`
	SpeedFactor     float64 `yaml:"speed_factor"` // target = SpeedFactor*player + SpeedOffset
	SpeedOffset     float64 `yaml:"speed_offset"`
	MinSpeed        float64 `yaml:"min_speed"`
	MaxSpeed        float64 `yaml:"max_speed"`
	CloseRate       float64 `yaml:"close_rate"` // Rate numerator for the inverse-gap rule
	FarRate         float64 `yaml:"far_rate"`   // Rate factor for the proportional-gap rule
	MinGap          float64 `yaml:"min_gap"`    // Floor for the gap used in rate formulas
	MaxGap          float64 `yaml:"max_gap"`    // Furthest the chaser may trail once visible
	HomeLaneFactor  float64 `yaml:"home_lane_factor"`
	OtherLaneFactor float64 `yaml:"other_lane_factor"`
}

// LaneConfig defines lane change behaviour.
type LaneConfig struct {
	SwitchDuration  float64 `yaml:"switch_duration"`
	BlockedBand     float64 `yaml:"blocked_band"` // Multiple of combined radii that blocks a change
	CloseBand       float64 `yaml:"close_band"`   // Multiple of combined radii that slows the blocker
	SlowFactor      float64 `yaml:"slow_factor"`
	SlowDuration    float64 `yaml:"slow_duration"`
	BounceDuration  float64 `yaml:"bounce_duration"`
	BounceAmplitude float64 `yaml:"bounce_amplitude"`
}

// PowerUpConfig defines power-up spawning.
type PowerUpConfig struct {
	Radius         float64 `yaml:"radius"`
	Interval       float64 `yaml:"interval"`        // Seconds between rows at ReferenceSpeed
	ReferenceSpeed float64 `yaml:"reference_speed"` // Speed at which Interval applies
	PickupDuration float64 `yaml:"pickup_duration"`
}

// CameraConfig defines the follow camera.
type CameraConfig struct {
	Baseline     float64 `yaml:"baseline"`
	MaxLookAhead float64 `yaml:"max_look_ahead"`
	RiseRate     float64 `yaml:"rise_rate"`
	FallRate     float64 `yaml:"fall_rate"`
	FailZoom     float64 `yaml:"fail_zoom"`
	ZoomDuration float64 `yaml:"zoom_duration"`
}

// TimingConfig defines the scripted phase durations.
type TimingConfig struct {
	Title               float64 `yaml:"title"`
	Setup               float64 `yaml:"setup"`
	Entrance            float64 `yaml:"entrance"`
	EntranceDistance    float64 `yaml:"entrance_distance"`
	Tutorial            float64 `yaml:"tutorial"`
	CountdownStep       float64 `yaml:"countdown_step"`
	ReplayDelay         float64 `yaml:"replay_delay"`
	OpponentRampUp      float64 `yaml:"opponent_ramp_up"`
	OpponentFinishDecel float64 `yaml:"opponent_finish_decel"`
	Dying               float64 `yaml:"dying"`
	WinStop             float64 `yaml:"win_stop"`
	LoseStop            float64 `yaml:"lose_stop"`
}

// DifficultyConfig defines how the chaser's catch-up grows over a race.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string  `yaml:"type"`   // "time" or "none"
	MaxAt float64 `yaml:"max_at"` // Race seconds at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Added to the chaser's far-gap rate at max difficulty
}

// NumOpponents is the number of AI runners a race requires.
const NumOpponents = 3

// Validate reports every invalid field at once.
func (c RaceConfig) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}

	if c.Track.Lanes < 1 {
		errs = append(errs, fmt.Errorf("track.lanes must be at least 1, got %d", c.Track.Lanes))
	}
	positive("track.lane_width", c.Track.LaneWidth)
	positive("track.finish_y", c.Track.FinishY)
	positive("track.view_height", c.Track.ViewHeight)

	positive("player.radius", c.Player.Radius)
	positive("player.min_speed", c.Player.MinSpeed)
	positive("player.start_accel", c.Player.StartAccel)
	if c.Player.MaxSpeed < c.Player.MinSpeed {
		errs = append(errs, fmt.Errorf("player.max_speed %v below min_speed %v", c.Player.MaxSpeed, c.Player.MinSpeed))
	}

	if len(c.Opponents) != NumOpponents {
		errs = append(errs, fmt.Errorf("opponents: need %d, got %d", NumOpponents, len(c.Opponents)))
	}
	for i, o := range c.Opponents {
		if o.Lane < 0 || o.Lane >= c.Track.Lanes {
			errs = append(errs, fmt.Errorf("opponents[%d].lane %d out of range", i, o.Lane))
		}
		positive(fmt.Sprintf("opponents[%d].speed", i), o.Speed)
		positive(fmt.Sprintf("opponents[%d].radius", i), o.Radius)
	}

	positive("chaser.radius", c.Chaser.Radius)
	positive("chaser.min_gap", c.Chaser.MinGap)
	positive("chaser.max_gap", c.Chaser.MaxGap)
	if c.Chaser.MaxSpeed < c.Chaser.MinSpeed {
		errs = append(errs, fmt.Errorf("chaser.max_speed %v below min_speed %v", c.Chaser.MaxSpeed, c.Chaser.MinSpeed))
	}

	positive("lanes.switch_duration", c.Lanes.SwitchDuration)
	positive("lanes.slow_duration", c.Lanes.SlowDuration)
	positive("lanes.bounce_duration", c.Lanes.BounceDuration)
	if c.Lanes.CloseBand < c.Lanes.BlockedBand {
		errs = append(errs, fmt.Errorf("lanes.close_band %v below blocked_band %v", c.Lanes.CloseBand, c.Lanes.BlockedBand))
	}

	positive("powerups.radius", c.PowerUps.Radius)
	positive("powerups.interval", c.PowerUps.Interval)
	positive("powerups.reference_speed", c.PowerUps.ReferenceSpeed)
	positive("powerups.pickup_duration", c.PowerUps.PickupDuration)

	positive("camera.zoom_duration", c.Camera.ZoomDuration)

	positive("timing.title", c.Timing.Title)
	positive("timing.setup", c.Timing.Setup)
	positive("timing.entrance", c.Timing.Entrance)
	positive("timing.tutorial", c.Timing.Tutorial)
	positive("timing.countdown_step", c.Timing.CountdownStep)
	positive("timing.opponent_ramp_up", c.Timing.OpponentRampUp)
	positive("timing.opponent_finish_decel", c.Timing.OpponentFinishDecel)
	positive("timing.dying", c.Timing.Dying)
	positive("timing.win_stop", c.Timing.WinStop)
	positive("timing.lose_stop", c.Timing.LoseStop)

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid race config: %w", errors.Join(errs...))
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string into a preset. Empty or unknown
// values return "" (use the config as loaded).
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *RaceConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust the chaser ceiling
	switch preset {
	case DifficultyEasy:
		cfg.Chaser.MaxSpeed -= 10
		cfg.Player.Boost += 4
	case DifficultyHard:
		cfg.Chaser.MaxSpeed += 8
		cfg.Player.Decel += 1
	}
	if cfg.Chaser.MaxSpeed < cfg.Chaser.MinSpeed {
		cfg.Chaser.MaxSpeed = cfg.Chaser.MinSpeed
	}
}
