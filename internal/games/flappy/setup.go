package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/engine"
)

// setupGround adds an invisible one-cell slab along the bottom edge.
func (s *Scene) setupGround() {
	frame := s.eng.Frame()
	ground := &engine.Node{
		Name:     NodeGround,
		Position: core.Vec{X: frame.MidX(), Y: frame.Y},
		Size:     core.Vec{X: frame.W, Y: 1},
	}
	_, err := s.eng.Attach(ground, engine.BodySpec{
		Shape:         engine.ShapeRect,
		Size:          ground.Size,
		Category:      engine.CategoryObject,
		ContactMask:   engine.CategoryObject,
		CollisionMask: engine.CategoryObject,
	})
	if err != nil {
		s.log.Error("attach ground body", "err", err)
	}
	s.eng.AddChild(ground)
}

// setupBackground lays frame-sized copies of the backdrop edge to edge.
// Each scrolls one frame width left, then jumps back, forever.
func (s *Scene) setupBackground() {
	frame := s.eng.Frame()
	scroll := engine.RepeatForever(engine.Sequence(
		engine.MoveBy(-frame.W, 0, s.cfg.Background.ScrollDuration),
		engine.MoveBy(frame.W, 0, 0),
	))

	for i := 0; i < s.cfg.Background.Copies; i++ {
		bg := engine.NewSprite(NodeBG, s.tex.bg)
		bg.Size = core.Vec{X: frame.W, Y: frame.H}
		bg.Position = core.Vec{X: frame.MidX() + frame.W*float64(i), Y: frame.MidY()}
		bg.ZPosition = -1
		s.eng.Run(bg, scroll)
		s.eng.AddChild(bg)
	}
}

func (s *Scene) setupScore() {
	frame := s.eng.Frame()
	s.label = engine.NewLabel(NodeScore, "0", core.ColorBrightWhite)
	s.label.Position = core.Vec{X: frame.MidX(), Y: frame.MaxY() - s.cfg.HUD.ScoreTopOffset}
	s.label.ZPosition = 4
	s.eng.AddChild(s.label)
}
