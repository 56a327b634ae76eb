package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/assets"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/engine"
)

func (s *Scene) birdSpec(dynamic bool) engine.BodySpec {
	return engine.BodySpec{
		Shape:         engine.ShapeCircle,
		Radius:        float64(s.tex.birdUp.Height) / 2,
		Dynamic:       dynamic,
		Mass:          s.cfg.Physics.BirdMass,
		Category:      engine.CategoryBird,
		ContactMask:   engine.CategoryObject | engine.CategoryGap,
		CollisionMask: engine.CategoryObject,
	}
}

// setupBird places the idle bird at the centre. Its body is not dynamic,
// so it hovers while the wing animation plays.
func (s *Scene) setupBird() {
	frame := s.eng.Frame()
	s.bird = engine.NewSprite(NodeBird, s.tex.birdUp)
	s.bird.Position = frame.Center()

	flap := engine.Animate([]*assets.Texture{s.tex.birdUp, s.tex.birdDown}, s.cfg.Bird.FlapFrameTime)
	s.eng.Run(s.bird, engine.RepeatForever(flap))

	if _, err := s.eng.Attach(s.bird, s.birdSpec(false)); err != nil {
		s.log.Error("attach bird body", "err", err)
	}
	s.eng.AddChild(s.bird)
}

// TouchesBegan flaps once per touch while the game is running. Each flap
// gives the bird a dynamic body with zero velocity, then applies the
// upward impulse, so earlier fall speed never carries over.
func (s *Scene) TouchesBegan(touches []core.Touch) {
	for range touches {
		if s.gameOver {
			return
		}
		body, err := s.eng.Attach(s.bird, s.birdSpec(true))
		if err != nil {
			s.log.Error("attach bird body", "err", err)
			return
		}
		body.SetVelocity(core.Vec{})
		body.ApplyImpulse(core.Vec{Y: s.cfg.Physics.FlapImpulse})
	}
}
