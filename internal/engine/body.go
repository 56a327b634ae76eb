package engine

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Shape selects the collision geometry of a body.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeRect
)

// BodySpec describes a physics body to attach to a node.
type BodySpec struct {
	Shape          Shape
	Radius         float64  // ShapeCircle
	Size           core.Vec // ShapeRect, full width and height
	Dynamic        bool     // affected by gravity and impulses
	AllowsRotation bool
	Sensor         bool // reports contacts but never blocks
	Mass           float64

	Category      Category
	ContactMask   Category // categories that raise contact callbacks
	CollisionMask Category // categories that physically block this body
}

// ErrInvalidBody is returned when a BodySpec cannot be simulated.
var ErrInvalidBody = errors.New("invalid body")

// Validate checks the spec's geometry and category.
func (s BodySpec) Validate() error {
	switch s.Shape {
	case ShapeCircle:
		if s.Radius <= 0 {
			return fmt.Errorf("%w: circle radius %v", ErrInvalidBody, s.Radius)
		}
	case ShapeRect:
		if s.Size.X <= 0 || s.Size.Y <= 0 {
			return fmt.Errorf("%w: rect size %v", ErrInvalidBody, s.Size)
		}
	default:
		return fmt.Errorf("%w: unknown shape %d", ErrInvalidBody, s.Shape)
	}
	if bits.OnesCount32(uint32(s.Category)) != 1 {
		return fmt.Errorf("%w: category %v must be a single bit", ErrInvalidBody, s.Category)
	}
	if s.Dynamic && s.Mass <= 0 {
		return fmt.Errorf("%w: dynamic body needs positive mass", ErrInvalidBody)
	}
	return nil
}

// ReportsContact reports whether a touching pair raises a contact callback.
// Either side's contact mask may ask for it.
func ReportsContact(a, b BodySpec) bool {
	return a.ContactMask.Has(b.Category) || b.ContactMask.Has(a.Category)
}

// Collides reports whether a touching pair blocks each other physically.
func Collides(a, b BodySpec) bool {
	if a.Sensor || b.Sensor {
		return false
	}
	return a.CollisionMask.Has(b.Category) || b.CollisionMask.Has(a.Category)
}

// Body is a physics body attached to a node.
type Body interface {
	Spec() BodySpec
	Velocity() core.Vec
	SetVelocity(v core.Vec)
	// ApplyImpulse changes velocity by j/mass. Non-dynamic bodies ignore it.
	ApplyImpulse(j core.Vec)
}
