package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/assets"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/engine"
)

// spawnAndThenDelayPipes runs the spawn loop on the scene itself.
func (s *Scene) spawnAndThenDelayPipes() {
	s.eng.Run(nil, engine.RepeatForever(engine.Sequence(
		engine.RunFunc(s.spawnPipes),
		engine.Wait(s.cfg.Pipes.SpawnInterval),
	)))
}

// spawnPipes adds a pipe pair and its gap sensor one frame width right of
// centre. All three travel two frame widths left and then remove themselves.
func (s *Scene) spawnPipes() {
	frame := s.eng.Frame()
	offset, err := PipeOffset(s.rng, frame.H, s.gapHeight)
	if err != nil {
		// NewScene already clamped the gap, so this means the frame changed.
		s.log.Error("skip pipe spawn", "err", err)
		return
	}

	x := frame.MidX() + frame.W
	move := engine.Sequence(
		engine.MoveBy(-2*frame.W, 0, frame.W/s.cfg.ScrollDivisor()),
		engine.RemoveFromParent(),
	)

	pipeH := max(float64(s.tex.pipeTop.Height), frame.H)
	upper := s.newPipe(s.tex.pipeTop, pipeH, core.Vec{X: x, Y: frame.MidY() + pipeH/2 + s.gapHeight/2 + offset})
	lower := s.newPipe(s.tex.pipeLow, pipeH, core.Vec{X: x, Y: frame.MidY() - pipeH/2 - s.gapHeight/2 + offset})

	gap := &engine.Node{
		Name:     NodeGap,
		Position: core.Vec{X: x, Y: frame.MidY() + offset},
		Size:     core.Vec{X: s.cfg.Pipes.SensorWidth, Y: s.gapHeight},
	}
	_, err = s.eng.Attach(gap, engine.BodySpec{
		Shape:       engine.ShapeRect,
		Size:        gap.Size,
		Sensor:      true,
		Category:    engine.CategoryGap,
		ContactMask: engine.CategoryBird,
	})
	if err != nil {
		s.log.Error("attach gap body", "err", err)
	}

	for _, n := range []*engine.Node{upper, lower, gap} {
		s.eng.Run(n, move)
		s.eng.AddChild(n)
	}
}

// newPipe builds a pipe sprite stretched to height; its texture tiles.
func (s *Scene) newPipe(tex *assets.Texture, height float64, pos core.Vec) *engine.Node {
	pipe := &engine.Node{
		Name:     NodePipe,
		Position: pos,
		Size:     core.Vec{X: float64(tex.Width), Y: height},
		Texture:  tex,
	}
	_, err := s.eng.Attach(pipe, engine.BodySpec{
		Shape:         engine.ShapeRect,
		Size:          pipe.Size,
		Category:      engine.CategoryObject,
		ContactMask:   engine.CategoryObject,
		CollisionMask: engine.CategoryObject,
	})
	if err != nil {
		s.log.Error("attach pipe body", "err", err)
	}
	return pipe
}
