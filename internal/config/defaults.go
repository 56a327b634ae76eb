package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the built-in flappy configuration.
// It mirrors defaults/flappy.yaml and is the fallback when that fails to parse.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Physics: FlappyPhysics{
			Gravity:     60,
			FlapImpulse: 30,
			BirdMass:    1.5,
		},
		Bird: FlappyBird{
			FlapFrameTime: 0.3,
		},
		Pipes: FlappyPipes{
			SpawnInterval: 2,
			GapFactor:     4,
			ScrollDivisor: 10,
			SensorWidth:   0.001,
		},
		Background: FlappyBackground{
			Copies:         3,
			ScrollDuration: 7,
		},
		HUD: FlappyHUD{
			ScoreTopOffset: 2,
			GameOverOffset: 3,
			RestartOffset:  -2,
		},
		Transition: TransitionConfig{
			FadeDuration: 1.0,
		},
		Audio: AudioConfig{
			Track: "background-game.mp3",
		},
		Difficulty: DifficultyConfig{
			Level: 0,
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
				GapReduction:    1,
			},
		},
	}
}
