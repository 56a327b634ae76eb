// Package flappy implements the flappy-bird scene: a bird that falls under
// gravity and flaps on touch, scrolling pipe pairs with a scoring gap
// between them, and a game-over overlay with a restart button.
package flappy

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/assets"
	"github.com/vovakirdan/tui-flappy/internal/audio"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/engine"
)

// Texture names looked up in the asset catalog.
const (
	TextureBirdUp   = "flappy1.png"
	TextureBirdDown = "flappy2.png"
	TextureBG       = "bg.png"
	TexturePipeTop  = "pipe1.png"
	TexturePipeLow  = "pipe2.png"
	TextureRestart  = "icon-restart"
	TextureGameOver = "gameOver.gif"
)

// RequiredTextures lists every texture the scene draws.
var RequiredTextures = []string{
	TextureBirdUp, TextureBirdDown, TextureBG, TexturePipeTop, TexturePipeLow, TextureRestart, TextureGameOver,
}

// Node names.
const (
	NodeBird     = "bird"
	NodeGround   = "ground"
	NodeScore    = "score"
	NodePipe     = "pipe"
	NodeGap      = "gap"
	NodeGameOver = "game-over"
	NodeRestart  = "btn-restart"
	NodeBG       = "background"
)

// ErrDegenerateFrame is returned when the frame is too short to fit a gap.
var ErrDegenerateFrame = errors.New("frame too short for a pipe gap")

// Deps are the collaborators a Scene is built from.
type Deps struct {
	Engine   engine.Engine
	Music    audio.Player
	Textures *assets.Catalog
	Logger   *log.Logger
	Config   config.FlappyConfig
	Rand     *rand.Rand
}

type textures struct {
	birdUp, birdDown, bg, pipeTop, pipeLow, restart, gameOver *assets.Texture
}

// Scene holds the state of one play-through. It is never reset; a restart
// builds a new Scene.
type Scene struct {
	eng   engine.Engine
	music audio.Player
	log   *log.Logger
	cfg   config.FlappyConfig
	rng   *rand.Rand
	tex   textures

	gapHeight float64

	bird    *engine.Node
	label   *engine.Node
	overlay *engine.Node
	button  *engine.Node

	score    int
	gameOver bool
}

// NewScene validates the dependencies and the frame geometry.
func NewScene(d Deps) (*Scene, error) {
	if d.Engine == nil || d.Textures == nil || d.Rand == nil {
		return nil, errors.New("flappy: engine, textures and rand are required")
	}
	if err := d.Textures.Require(RequiredTextures...); err != nil {
		return nil, fmt.Errorf("flappy: %w", err)
	}
	s := &Scene{
		eng:   d.Engine,
		music: d.Music,
		log:   d.Logger,
		cfg:   d.Config,
		rng:   d.Rand,
	}
	if s.music == nil {
		s.music = audio.Silent{}
	}
	if s.log == nil {
		s.log = log.Default()
	}
	s.tex = textures{
		birdUp:   mustTexture(d.Textures, TextureBirdUp),
		birdDown: mustTexture(d.Textures, TextureBirdDown),
		bg:       mustTexture(d.Textures, TextureBG),
		pipeTop:  mustTexture(d.Textures, TexturePipeTop),
		pipeLow:  mustTexture(d.Textures, TexturePipeLow),
		restart:  mustTexture(d.Textures, TextureRestart),
		gameOver: mustTexture(d.Textures, TextureGameOver),
	}

	gap, clamped, err := GapHeight(d.Engine.Frame().H, d.Config.GapFactor()*float64(s.tex.birdUp.Height))
	if err != nil {
		return nil, fmt.Errorf("flappy: %w", err)
	}
	if clamped {
		s.log.Warn("gap height clamped to fit the frame",
			"requested", d.Config.GapFactor()*float64(s.tex.birdUp.Height), "gap", gap, "frame_height", d.Engine.Frame().H)
	}
	s.gapHeight = gap
	return s, nil
}

// mustTexture is only called after Require has succeeded.
func mustTexture(c *assets.Catalog, name string) *assets.Texture {
	t, err := c.Texture(name)
	if err != nil {
		panic(err)
	}
	return t
}

// DidMove populates the scene and starts its music. The order matches
// what players see: music, then ground, backdrop, bird, pipes and score.
func (s *Scene) DidMove() {
	if err := s.music.PlayBackgroundMusic(s.cfg.Audio.Track); err != nil {
		s.log.Warn("background music unavailable", "track", s.cfg.Audio.Track, "err", err)
	}
	s.eng.OnContact(s.didBegin)
	s.setupGround()
	s.setupBackground()
	s.setupBird()
	s.spawnAndThenDelayPipes()
	s.setupScore()
}

// Update advances the world by dt seconds.
func (s *Scene) Update(dt float64) {
	s.eng.Step(dt)
}

// Render draws the scene into dst.
func (s *Scene) Render(dst *core.Screen) {
	s.eng.Render(dst)
}

// Score returns the number of gaps passed.
func (s *Scene) Score() int { return s.score }

// GameOver reports whether the bird has crashed.
func (s *Scene) GameOver() bool { return s.gameOver }

// GapHeight returns the pipe gap for a frame of height frameH. A gap that
// leaves no room for vertical variation is clamped to floor(frameH/2)-1;
// a frame that cannot fit even a one-cell gap is rejected.
func GapHeight(frameH, requested float64) (gap float64, clamped bool, err error) {
	maxGap := math.Floor(frameH/2) - 1
	if maxGap < 1 {
		return 0, false, fmt.Errorf("%w: height %v", ErrDegenerateFrame, frameH)
	}
	if requested > maxGap {
		return maxGap, true, nil
	}
	return requested, false, nil
}

// PipeOffset draws the vertical offset of a pipe pair's gap centre from
// the frame's midline. The result is uniform over whole cells in
// [-frameH/4, frameH/4 - gapHeight).
func PipeOffset(rng *rand.Rand, frameH, gapHeight float64) (float64, error) {
	span := int(math.Floor(frameH/2 - gapHeight))
	if span < 1 {
		return 0, fmt.Errorf("%w: gap %v in height %v", ErrDegenerateFrame, gapHeight, frameH)
	}
	return float64(rng.Intn(span)) - frameH/4, nil
}
