package engine

import "github.com/vovakirdan/tui-flappy/internal/core"

// Contact is a begin-contact event between two bodies.
type Contact struct {
	A, B         *Node
	BodyA, BodyB BodySpec
}

// Involves reports whether either body belongs to cat.
func (c Contact) Involves(cat Category) bool {
	return c.BodyA.Category.Has(cat) || c.BodyB.Category.Has(cat)
}

// Engine is the capability a scene needs from its host: a scene graph,
// physics bodies, an action scheduler and contact notifications.
type Engine interface {
	Frame() core.RectF

	AddChild(n *Node)
	RemoveChild(n *Node)
	Children() []*Node

	// Attach gives n a physics body, replacing any existing one.
	Attach(n *Node, spec BodySpec) (Body, error)
	Run(n *Node, a Action)

	// OnContact sets the callback for begin-contact events. Callbacks run
	// inside Step, after the world has been integrated.
	OnContact(f func(Contact))

	SetPaused(paused bool)
	Paused() bool

	// Step advances actions and physics by dt seconds unless paused.
	Step(dt float64)
	Render(dst *core.Screen)
}
