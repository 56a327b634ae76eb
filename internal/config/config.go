// Package config provides YAML-based scene configuration loading and
// difficulty presets for the flappy scene.
package config

import (
	"errors"
	"fmt"
)

// FlappyConfig contains all tuning for the flappy scene.
// Distances are in screen cells, durations in seconds.
type FlappyConfig struct {
	Physics    FlappyPhysics    `yaml:"physics"`
	Bird       FlappyBird       `yaml:"bird"`
	Pipes      FlappyPipes      `yaml:"pipes"`
	Background FlappyBackground `yaml:"background"`
	HUD        FlappyHUD        `yaml:"hud"`
	Transition TransitionConfig `yaml:"transition"`
	Audio      AudioConfig      `yaml:"audio"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// FlappyPhysics defines the physics world parameters.
type FlappyPhysics struct {
	Gravity     float64 `yaml:"gravity"`      // downward acceleration, cells/s^2
	FlapImpulse float64 `yaml:"flap_impulse"` // upward impulse applied per tap
	BirdMass    float64 `yaml:"bird_mass"`
}

// FlappyBird defines the player sprite.
type FlappyBird struct {
	FlapFrameTime float64 `yaml:"flap_frame_time"` // seconds per animation frame
}

// FlappyPipes defines pipe spawning and scrolling.
type FlappyPipes struct {
	SpawnInterval float64 `yaml:"spawn_interval"`
	GapFactor     float64 `yaml:"gap_factor"`     // gap height in bird heights
	ScrollDivisor float64 `yaml:"scroll_divisor"` // pipes cross 2W in W/ScrollDivisor seconds
	SensorWidth   float64 `yaml:"sensor_width"`
}

// FlappyBackground defines the scrolling backdrop.
type FlappyBackground struct {
	Copies         int     `yaml:"copies"`
	ScrollDuration float64 `yaml:"scroll_duration"`
}

// FlappyHUD positions the score label and the game-over overlay.
type FlappyHUD struct {
	ScoreTopOffset float64 `yaml:"score_top_offset"` // rows below the top edge
	GameOverOffset float64 `yaml:"game_over_offset"` // rows above the vertical centre
	RestartOffset  float64 `yaml:"restart_offset"`   // rows relative to the vertical centre
}

// TransitionConfig controls the presentation of a restarted scene.
type TransitionConfig struct {
	FadeDuration float64 `yaml:"fade_duration"`
}

// AudioConfig names the background music track.
type AudioConfig struct {
	Track string `yaml:"track"`
}

// DifficultyConfig scales the scene from the configured baseline.
// Level 0 leaves the baseline untouched, level 1 applies the full scaling.
type DifficultyConfig struct {
	Level   float64       `yaml:"level"`
	Scaling ScalingConfig `yaml:"scaling"`
}

// ScalingConfig defines the magnitude of difficulty changes at level 1.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // added to the scroll speed factor
	GapReduction    float64 `yaml:"gap_reduction"`    // subtracted from the gap factor
}

// ErrInvalidConfig is returned by Validate for out-of-range values.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks that every value is usable by the scene.
func (c FlappyConfig) Validate() error {
	checks := []struct {
		ok   bool
		name string
	}{
		{c.Physics.Gravity > 0, "physics.gravity"},
		{c.Physics.FlapImpulse > 0, "physics.flap_impulse"},
		{c.Physics.BirdMass > 0, "physics.bird_mass"},
		{c.Bird.FlapFrameTime > 0, "bird.flap_frame_time"},
		{c.Pipes.SpawnInterval > 0, "pipes.spawn_interval"},
		{c.Pipes.GapFactor > 0, "pipes.gap_factor"},
		{c.Pipes.ScrollDivisor > 0, "pipes.scroll_divisor"},
		{c.Pipes.SensorWidth > 0, "pipes.sensor_width"},
		{c.Background.Copies >= 1, "background.copies"},
		{c.Background.ScrollDuration > 0, "background.scroll_duration"},
		{c.HUD.ScoreTopOffset >= 0, "hud.score_top_offset"},
		{c.Transition.FadeDuration >= 0, "transition.fade_duration"},
		{c.Audio.Track != "", "audio.track"},
		{c.Difficulty.Level >= 0 && c.Difficulty.Level <= 1, "difficulty.level"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s out of range", ErrInvalidConfig, chk.name)
		}
	}
	return nil
}

// GapFactor returns the gap factor after difficulty scaling.
// It never drops below one bird height.
func (c FlappyConfig) GapFactor() float64 {
	g := c.Pipes.GapFactor - c.Difficulty.Scaling.GapReduction*c.Difficulty.Level
	if g < 1 {
		return 1
	}
	return g
}

// ScrollDivisor returns the scroll divisor after difficulty scaling.
// A larger divisor moves pipes faster.
func (c FlappyConfig) ScrollDivisor() float64 {
	return c.Pipes.ScrollDivisor * (1 + c.Difficulty.Scaling.SpeedMultiplier*c.Difficulty.Level)
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ErrUnknownPreset is returned by ParsePreset.
var ErrUnknownPreset = errors.New("unknown difficulty preset")

// ParsePreset validates a preset name. The empty string means fixed.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	case "":
		return DifficultyFixed, nil
	default:
		return "", fmt.Errorf("%w: %q (use easy, normal, hard or fixed)", ErrUnknownPreset, name)
	}
}

// LevelForPreset returns the difficulty level for a preset.
func LevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
