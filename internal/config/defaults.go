package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/gapflight.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
// Kept in sync with defaults/gapflight.yaml.
func Default() Config {
	return Config{
		Field: FieldConfig{
			Width:  400,
			Height: 600,
		},
		Avatar: AvatarConfig{
			X:             50,
			Width:         34,
			Height:        24,
			StartY:        250,
			StartVelocity: 0,
			HitboxMargin:  4,
		},
		Physics: PhysicsConfig{
			Gravity:     0.5,
			JumpImpulse: -8,
		},
		Obstacles: ObstacleConfig{
			Width:         52,
			GapHeight:     150,
			MinGapTop:     50,
			MaxGapTop:     350,
			Speed:         2,
			SpawnInterval: 1500 * time.Millisecond,
		},
		Scoring: ScoringConfig{
			Increment: 0.5,
		},
		Timing: TimingConfig{
			TickRate: 60,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
