package flappy

import "github.com/vovakirdan/tui-flappy/internal/core"

// TouchesEnded reports whether any released touch landed on the restart
// button. The button exists only after game over.
func (s *Scene) TouchesEnded(touches []core.Touch) bool {
	if s.button == nil {
		return false
	}
	for _, t := range touches {
		if s.button.Contains(t.Pos) {
			return true
		}
	}
	return false
}

// RestartButton returns the button's bounds once it is on screen.
func (s *Scene) RestartButton() (core.RectF, bool) {
	if s.button == nil {
		return core.RectF{}, false
	}
	return s.button.Frame(), true
}
