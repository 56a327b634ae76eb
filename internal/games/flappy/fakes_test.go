package flappy

import (
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/assets"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/engine"
)

// fakeBody records velocity writes and impulses in order.
type fakeBody struct {
	spec engine.BodySpec
	vel  core.Vec
	ops  []string
}

func (b *fakeBody) Spec() engine.BodySpec { return b.spec }
func (b *fakeBody) Velocity() core.Vec    { return b.vel }

func (b *fakeBody) SetVelocity(v core.Vec) {
	b.vel = v
	b.ops = append(b.ops, "velocity")
}

func (b *fakeBody) ApplyImpulse(j core.Vec) {
	if b.spec.Dynamic {
		b.vel = b.vel.Add(j.Scale(1 / b.spec.Mass))
	}
	b.ops = append(b.ops, "impulse")
}

// fakeEngine is a scene graph without physics. Contacts are injected.
type fakeEngine struct {
	*engine.Graph
	contact  func(engine.Contact)
	attached []*fakeBody
}

func newFakeEngine(w, h float64) *fakeEngine {
	return &fakeEngine{Graph: engine.NewGraph(core.RectF{W: w, H: h})}
}

func (f *fakeEngine) Attach(n *engine.Node, spec engine.BodySpec) (engine.Body, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	b := &fakeBody{spec: spec}
	n.SetBody(b)
	f.attached = append(f.attached, b)
	return b, nil
}

func (f *fakeEngine) OnContact(fn func(engine.Contact)) { f.contact = fn }

func (f *fakeEngine) Step(dt float64) {
	if f.Paused() {
		return
	}
	f.Advance(dt)
}

func (f *fakeEngine) emit(a, b engine.Category) {
	f.contact(engine.Contact{
		A:     &engine.Node{},
		B:     &engine.Node{},
		BodyA: engine.BodySpec{Category: a},
		BodyB: engine.BodySpec{Category: b},
	})
}

func (f *fakeEngine) countNamed(name string) int {
	count := 0
	for _, n := range f.Children() {
		if n.Name == name {
			count++
		}
	}
	return count
}

func (f *fakeEngine) countAttached(cat engine.Category) int {
	count := 0
	for _, b := range f.attached {
		if b.spec.Category == cat {
			count++
		}
	}
	return count
}

// recordingPlayer captures music calls.
type recordingPlayer struct {
	played []string
	pauses int
}

func (p *recordingPlayer) PlayBackgroundMusic(track string) error {
	p.played = append(p.played, track)
	return nil
}

func (p *recordingPlayer) PauseBackgroundMusic() { p.pauses++ }

func testTextures(t *testing.T) *assets.Catalog {
	t.Helper()
	c, err := assets.Default()
	if err != nil {
		t.Fatalf("assets.Default() error = %v", err)
	}
	return c
}

func newTestScene(t *testing.T, w, h float64) (*Scene, *fakeEngine, *recordingPlayer) {
	t.Helper()
	eng := newFakeEngine(w, h)
	music := &recordingPlayer{}
	s, err := NewScene(Deps{
		Engine:   eng,
		Music:    music,
		Textures: testTextures(t),
		Logger:   log.New(io.Discard),
		Config:   config.DefaultFlappyConfig(),
		Rand:     rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("NewScene() error = %v", err)
	}
	s.DidMove()
	return s, eng, music
}
