// Package physics implements engine.Engine on top of the Chipmunk2D port
// github.com/jakecoffman/cp.
package physics

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/engine"
)

// Every shape shares one collision type; filtering is done by the
// category masks in the begin handler.
const collisionTypeBody cp.CollisionType = 1

// World is a scene graph whose nodes may carry cp bodies.
// Kinematic (non-dynamic) bodies follow their node, which actions move;
// dynamic bodies drive their node's position.
type World struct {
	*engine.Graph

	space     *cp.Space
	bodies    map[*engine.Node]*body
	onContact func(engine.Contact)
	pending   []engine.Contact
}

var _ engine.Engine = (*World)(nil)

// NewWorld creates a world covering frame with downward gravity.
func NewWorld(frame core.RectF, gravity float64) *World {
	w := &World{
		Graph:  engine.NewGraph(frame),
		space:  cp.NewSpace(),
		bodies: make(map[*engine.Node]*body),
	}
	w.space.SetGravity(cp.Vector{X: 0, Y: -gravity})

	handler := w.space.NewCollisionHandler(collisionTypeBody, collisionTypeBody)
	handler.UserData = w
	handler.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok {
			return true
		}
		a, b := arb.Shapes()
		return world.begin(a, b)
	}

	w.Graph.OnRemove(w.detach)
	return w
}

// OnContact sets the begin-contact callback.
func (w *World) OnContact(f func(engine.Contact)) {
	w.onContact = f
}

// Attach gives n a body described by spec. Re-attaching an identical
// dynamic spec keeps the existing cp body so ongoing contacts are not
// reported twice; its velocity is reset as for a fresh body.
func (w *World) Attach(n *engine.Node, spec engine.BodySpec) (engine.Body, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if old, ok := w.bodies[n]; ok {
		if old.spec == spec && spec.Dynamic {
			old.rb.SetVelocity(0, 0)
			old.rb.SetAngularVelocity(0)
			return old, nil
		}
		w.detach(n)
	}

	var cb *cp.Body
	if spec.Dynamic {
		cb = cp.NewBody(spec.Mass, moment(spec))
	} else {
		cb = cp.NewKinematicBody()
	}
	cb.SetPosition(vec(n.Position))

	var shape *cp.Shape
	switch spec.Shape {
	case engine.ShapeRect:
		shape = cp.NewBox(cb, spec.Size.X, spec.Size.Y, 0)
	default:
		shape = cp.NewCircle(cb, spec.Radius, cp.Vector{})
	}
	shape.SetSensor(spec.Sensor)
	shape.SetCollisionType(collisionTypeBody)

	b := &body{node: n, spec: spec, rb: cb, shape: shape}
	shape.UserData = b
	w.space.AddBody(cb)
	w.space.AddShape(shape)

	w.bodies[n] = b
	n.SetBody(b)
	return b, nil
}

// AddChild adds n to the scene and moves its body, if attached, to the
// node's current position.
func (w *World) AddChild(n *engine.Node) {
	w.Graph.AddChild(n)
	if b, ok := w.bodies[n]; ok {
		b.rb.SetPosition(vec(n.Position))
	}
}

// Detach removes n's body, if any.
func (w *World) Detach(n *engine.Node) {
	w.detach(n)
}

func (w *World) detach(n *engine.Node) {
	b, ok := w.bodies[n]
	if !ok {
		return
	}
	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.rb)
	delete(w.bodies, n)
	n.SetBody(nil)
}

// Step runs actions, then physics, then contact callbacks.
// A paused world does nothing.
func (w *World) Step(dt float64) {
	if w.Paused() || dt <= 0 {
		return
	}
	w.Advance(dt)

	for _, b := range w.bodies {
		if !b.spec.Dynamic {
			d := vec(b.node.Position).Sub(b.rb.Position())
			b.rb.SetVelocity(d.X/dt, d.Y/dt)
		}
	}
	w.space.Step(dt)
	for _, b := range w.bodies {
		if b.spec.Dynamic {
			p := b.rb.Position()
			b.node.Position = core.Vec{X: p.X, Y: p.Y}
		}
	}

	contacts := w.pending
	w.pending = nil
	for _, c := range contacts {
		if w.onContact != nil {
			w.onContact(c)
		}
	}
}

// begin queues a contact when the masks ask for one and reports whether
// cp should resolve the pair physically.
func (w *World) begin(sa, sb *cp.Shape) bool {
	a, okA := sa.UserData.(*body)
	b, okB := sb.UserData.(*body)
	if !okA || !okB {
		return true
	}
	if !a.spec.Dynamic && !b.spec.Dynamic {
		return false
	}
	if engine.ReportsContact(a.spec, b.spec) {
		w.pending = append(w.pending, engine.Contact{A: a.node, B: b.node, BodyA: a.spec, BodyB: b.spec})
	}
	return engine.Collides(a.spec, b.spec)
}

func moment(spec engine.BodySpec) float64 {
	if !spec.AllowsRotation {
		return math.Inf(1)
	}
	if spec.Shape == engine.ShapeRect {
		return cp.MomentForBox(spec.Mass, spec.Size.X, spec.Size.Y)
	}
	return cp.MomentForCircle(spec.Mass, 0, spec.Radius, cp.Vector{})
}

func vec(v core.Vec) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

// body adapts a cp body to engine.Body.
type body struct {
	node  *engine.Node
	spec  engine.BodySpec
	rb    *cp.Body
	shape *cp.Shape
}

func (b *body) Spec() engine.BodySpec { return b.spec }

func (b *body) Velocity() core.Vec {
	v := b.rb.Velocity()
	return core.Vec{X: v.X, Y: v.Y}
}

func (b *body) SetVelocity(v core.Vec) {
	b.rb.SetVelocity(v.X, v.Y)
}

func (b *body) ApplyImpulse(j core.Vec) {
	if !b.spec.Dynamic {
		return
	}
	b.rb.ApplyImpulseAtWorldPoint(vec(j), b.rb.Position())
}
