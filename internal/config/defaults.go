package config

import (
	_ "embed"
)

//go:embed defaults/race.yaml
var defaultRaceYAML []byte

// DefaultRaceConfig returns the default race configuration.
// It mirrors defaults/race.yaml and is used if the embedded file fails to parse.
func DefaultRaceConfig() RaceConfig {
	return RaceConfig{
		Track: TrackConfig{
			Lanes:      3,
			LaneWidth:  30,
			FinishY:    3000,
			ViewHeight: 200,
		},
		Player: PlayerConfig{
			Radius:     6,
			MinSpeed:   40,
			MaxSpeed:   90,
			StartAccel: 45,
			Decel:      3,
			Boost:      14,
		},
		Opponents: []OpponentConfig{
			{Name: "Dash", Lane: 0, StartY: 10, Speed: 48, Radius: 6},
			{Name: "Blaze", Lane: 2, StartY: 10, Speed: 52, Radius: 6},
			{Name: "Comet", Lane: 1, StartY: 25, Speed: 56, Radius: 6},
		},
		Chaser: ChaserConfig{
			Radius:          20,
			StartGap:        90,
			SpeedFactor:     0.9,
			SpeedOffset:     8,
			MinSpeed:        30,
			MaxSpeed:        95,
			CloseRate:       60,
			FarRate:         0.004,
			MinGap:          1,
			MaxGap:          60,
			HomeLaneFactor:  1.2,
			OtherLaneFactor: 1.0,
		},
		Lanes: LaneConfig{
			SwitchDuration:  0.25,
			BlockedBand:     1.0,
			CloseBand:       1.6,
			SlowFactor:      0.6,
			SlowDuration:    0.5,
			BounceDuration:  0.2,
			BounceAmplitude: 6,
		},
		PowerUps: PowerUpConfig{
			Radius:         5,
			Interval:       1.2,
			ReferenceSpeed: 50,
			PickupDuration: 0.4,
		},
		Camera: CameraConfig{
			Baseline:     40,
			MaxLookAhead: 30,
			RiseRate:     1.0,
			FallRate:     4.0,
			FailZoom:     1.6,
			ZoomDuration: 0.8,
		},
		Timing: TimingConfig{
			Title:               1.5,
			Setup:               2.0,
			Entrance:            1.2,
			EntranceDistance:    40,
			Tutorial:            2.5,
			CountdownStep:       1.0,
			ReplayDelay:         0.5,
			OpponentRampUp:      2.0,
			OpponentFinishDecel: 1.5,
			Dying:               0.6,
			WinStop:             2.0,
			LoseStop:            0.8,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 60,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
			},
		},
	}
}
