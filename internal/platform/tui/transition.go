package tui

import (
	"time"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Renderer draws a scene into a screen buffer.
type Renderer interface {
	Render(dst *core.Screen)
}

// fadeBlackout is the share of the fade, centred on its midpoint, during
// which nothing is drawn.
const fadeBlackout = 0.2

// Fade presents a new scene by dimming out the old one, passing through
// an empty frame, and dimming in the new one. Neither scene is stepped
// while the fade runs.
type Fade struct {
	from, to Renderer
	duration time.Duration
	elapsed  time.Duration
}

// NewFade creates a fade from one scene to another.
func NewFade(from, to Renderer, d time.Duration) *Fade {
	return &Fade{from: from, to: to, duration: d}
}

// Advance moves the fade forward by dt and reports whether it is finished.
func (f *Fade) Advance(dt time.Duration) bool {
	f.elapsed += dt
	return f.Done()
}

// Done reports whether the full duration has elapsed.
func (f *Fade) Done() bool {
	return f.elapsed >= f.duration
}

// Progress returns the completed fraction in [0, 1].
func (f *Fade) Progress() float64 {
	if f.duration <= 0 {
		return 1
	}
	return core.ClampF(float64(f.elapsed)/float64(f.duration), 0, 1)
}

// Render draws the current fade frame.
func (f *Fade) Render(dst *core.Screen) {
	dst.Clear()
	p := f.Progress()
	switch {
	case p < 0.5-fadeBlackout/2:
		f.from.Render(dst)
	case p < 0.5+fadeBlackout/2:
		return
	case p < 1:
		f.to.Render(dst)
	default:
		f.to.Render(dst)
		return
	}
	dst.Tint(core.ColorGray)
}
