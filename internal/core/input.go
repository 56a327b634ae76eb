package core

// TouchPhase distinguishes the start of a touch from its release.
type TouchPhase int

const (
	TouchDown TouchPhase = iota // finger/button pressed
	TouchUp                     // finger/button released
)

// String returns a human-readable name for the phase.
func (p TouchPhase) String() string {
	switch p {
	case TouchDown:
		return "Down"
	case TouchUp:
		return "Up"
	default:
		return "Unknown"
	}
}

// Touch is one pointer event in world coordinates.
type Touch struct {
	Phase TouchPhase
	Pos   Vec
}

// InputFrame collects the touches delivered during one simulation tick.
// The platform translates mouse and keyboard events into touches, so
// scenes only ever see the touch surface.
type InputFrame struct {
	Touches []Touch
}

// Add appends a touch to the frame.
func (f *InputFrame) Add(t Touch) {
	f.Touches = append(f.Touches, t)
}

// Began returns the touch-down events of this frame, in arrival order.
func (f InputFrame) Began() []Touch {
	return f.phase(TouchDown)
}

// Ended returns the touch-up events of this frame, in arrival order.
func (f InputFrame) Ended() []Touch {
	return f.phase(TouchUp)
}

func (f InputFrame) phase(p TouchPhase) []Touch {
	var out []Touch
	for _, t := range f.Touches {
		if t.Phase == p {
			out = append(out, t)
		}
	}
	return out
}

// Empty reports whether the frame carries no touches.
func (f InputFrame) Empty() bool {
	return len(f.Touches) == 0
}

// Clear resets the frame for the next tick, keeping its storage.
func (f *InputFrame) Clear() {
	f.Touches = f.Touches[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := InputFrame{Touches: make([]Touch, len(f.Touches))}
	copy(clone.Touches, f.Touches)
	return clone
}
