package flappy

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/assets"
	"github.com/vovakirdan/tui-flappy/internal/audio"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/physics"
	"github.com/vovakirdan/tui-flappy/internal/registry"
)

// ID is the registry and score-storage identifier of the scene.
const ID = "flappy"

// Game adapts a Scene on a physics.World to registry.Game.
type Game struct {
	env   registry.Env
	cfg   core.RuntimeConfig
	fade  time.Duration
	world *physics.World
	scene *Scene
}

// New creates an unstarted game.
func New(env registry.Env) *Game {
	return &Game{env: env}
}

func init() {
	registry.Register(registry.GameInfo{ID: ID, Title: "Flappy Bird"}, func(env registry.Env) registry.Game {
		return New(env)
	})
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string { return ID }

// Title returns the display name for this game.
func (g *Game) Title() string { return "Flappy Bird" }

// Start loads the configuration, builds the world and runs the scene's
// setup.
func (g *Game) Start(cfg core.RuntimeConfig) error {
	fc, err := config.LoadFlappy(g.env.ConfigPath)
	if err != nil {
		return fmt.Errorf("flappy: %w", err)
	}
	preset, err := config.ParsePreset(g.env.Preset)
	if err != nil {
		return fmt.Errorf("flappy: %w", err)
	}
	config.ApplyFlappyPreset(&fc, preset)

	textures := g.env.Textures
	if textures == nil {
		if textures, err = assets.Default(); err != nil {
			return err
		}
	}
	logger := g.env.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	music := g.env.Music
	if music == nil {
		music = audio.Silent{}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	frame := core.RectF{W: float64(cfg.ScreenW), H: float64(cfg.ScreenH)}
	world := physics.NewWorld(frame, fc.Physics.Gravity)
	scene, err := NewScene(Deps{
		Engine:   world,
		Music:    music,
		Textures: textures,
		Logger:   logger,
		Config:   fc,
		Rand:     rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		return err
	}

	g.cfg = cfg
	g.fade = time.Duration(fc.Transition.FadeDuration * float64(time.Second))
	g.world = world
	g.scene = scene
	scene.DidMove()
	return nil
}

// Step feeds the tick's touches to the scene, then advances the world.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.scene == nil {
		return core.StepResult{}
	}
	var restart bool
	if !in.Empty() {
		g.scene.TouchesBegan(in.Began())
		restart = g.scene.TouchesEnded(in.Ended())
	}
	g.scene.Update(g.cfg.TickSeconds())
	return core.StepResult{State: g.State(), Restart: restart}
}

// Render draws the scene.
func (g *Game) Render(dst *core.Screen) {
	if g.scene != nil {
		g.scene.Render(dst)
	}
}

// State returns the current score and flags.
func (g *Game) State() core.GameState {
	if g.scene == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.scene.Score(),
		GameOver: g.scene.GameOver(),
		Paused:   g.world.Paused(),
	}
}

// RestartButton exposes the button bounds so keyboard input can target it.
func (g *Game) RestartButton() (core.RectF, bool) {
	if g.scene == nil {
		return core.RectF{}, false
	}
	return g.scene.RestartButton()
}

// FadeDuration is the cross-fade used when presenting a restarted scene.
func (g *Game) FadeDuration() time.Duration { return g.fade }
