// Package config provides YAML-based configuration for the simulation:
// play field geometry, avatar and obstacle dimensions, physics constants,
// scoring and timing.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config contains every constant the simulation core reads.
type Config struct {
	Field     FieldConfig    `yaml:"field"`
	Avatar    AvatarConfig   `yaml:"avatar"`
	Physics   PhysicsConfig  `yaml:"physics"`
	Obstacles ObstacleConfig `yaml:"obstacles"`
	Scoring   ScoringConfig  `yaml:"scoring"`
	Timing    TimingConfig   `yaml:"timing"`
}

// FieldConfig defines the play field in abstract pixels.
type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// AvatarConfig defines the avatar's fixed column, size and initial state.
type AvatarConfig struct {
	X             float64 `yaml:"x"`
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	StartY        float64 `yaml:"start_y"`
	StartVelocity float64 `yaml:"start_velocity"`
	HitboxMargin  float64 `yaml:"hitbox_margin"` // Inset of the collision box on every side
}

// PhysicsConfig defines per-tick physics constants.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`      // Added to velocity every tick
	JumpImpulse float64 `yaml:"jump_impulse"` // Velocity set on primary action (negative = up)
}

// ObstacleConfig defines obstacle geometry, motion and spawning.
type ObstacleConfig struct {
	Width         float64       `yaml:"width"`
	GapHeight     float64       `yaml:"gap_height"`
	MinGapTop     float64       `yaml:"min_gap_top"`
	MaxGapTop     float64       `yaml:"max_gap_top"`
	Speed         float64       `yaml:"speed"`          // Leftward movement per tick
	SpawnInterval time.Duration `yaml:"spawn_interval"` // Simulation time between spawns
}

// ScoringConfig defines how much each passed obstacle is worth.
type ScoringConfig struct {
	Increment float64 `yaml:"increment"`
}

// TimingConfig defines the simulation tick rate.
type TimingConfig struct {
	TickRate int `yaml:"tick_rate"`
}

// TickInterval returns the duration of one simulation tick.
func (c Config) TickInterval() time.Duration {
	if c.Timing.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Timing.TickRate)
}

// Elapsed returns the simulation time after ticks ticks. It is computed from
// the tick count, so the rounding in TickInterval never accumulates.
func (c Config) Elapsed(ticks int) time.Duration {
	rate := c.Timing.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Duration(ticks) * time.Second / time.Duration(rate)
}

// SpawnX returns the horizontal coordinate where obstacles appear.
func (c Config) SpawnX() float64 {
	return c.Field.Width
}

// RetireX returns the retirement threshold: an obstacle at or left of this
// coordinate is fully off the play field.
func (c Config) RetireX() float64 {
	return -c.Obstacles.Width
}

// Validate reports the first contract violation in the configuration.
func (c Config) Validate() error {
	switch {
	case c.Field.Width <= 0 || c.Field.Height <= 0:
		return fmt.Errorf("%w: field must have positive size, got %gx%g", ErrInvalid, c.Field.Width, c.Field.Height)
	case c.Avatar.Width <= 0 || c.Avatar.Height <= 0:
		return fmt.Errorf("%w: avatar must have positive size", ErrInvalid)
	case c.Avatar.HitboxMargin < 0:
		return fmt.Errorf("%w: hitbox margin must not be negative, got %g", ErrInvalid, c.Avatar.HitboxMargin)
	case 2*c.Avatar.HitboxMargin >= c.Avatar.Width || 2*c.Avatar.HitboxMargin >= c.Avatar.Height:
		return fmt.Errorf("%w: hitbox margin %g leaves no collision box", ErrInvalid, c.Avatar.HitboxMargin)
	case c.Obstacles.Width <= 0:
		return fmt.Errorf("%w: obstacle width must be positive, got %g", ErrInvalid, c.Obstacles.Width)
	case c.Obstacles.GapHeight <= 0:
		return fmt.Errorf("%w: gap height must be positive, got %g", ErrInvalid, c.Obstacles.GapHeight)
	case c.Obstacles.MinGapTop < 0 || c.Obstacles.MinGapTop > c.Obstacles.MaxGapTop:
		return fmt.Errorf("%w: gap top range [%g, %g] is empty or negative", ErrInvalid, c.Obstacles.MinGapTop, c.Obstacles.MaxGapTop)
	case c.Obstacles.MaxGapTop+c.Obstacles.GapHeight > c.Field.Height:
		return fmt.Errorf("%w: gap can extend below the field", ErrInvalid)
	case c.Obstacles.Speed <= 0:
		return fmt.Errorf("%w: obstacle speed must be positive, got %g", ErrInvalid, c.Obstacles.Speed)
	case c.Obstacles.SpawnInterval <= 0:
		return fmt.Errorf("%w: spawn interval must be positive, got %s", ErrInvalid, c.Obstacles.SpawnInterval)
	case c.Scoring.Increment < 0:
		return fmt.Errorf("%w: score increment must not be negative, got %g", ErrInvalid, c.Scoring.Increment)
	case c.Timing.TickRate <= 0:
		return fmt.Errorf("%w: tick rate must be positive, got %d", ErrInvalid, c.Timing.TickRate)
	}
	return nil
}
