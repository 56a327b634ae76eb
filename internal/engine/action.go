package engine

import (
	"github.com/vovakirdan/tui-flappy/internal/assets"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// timeEpsilon absorbs float drift when summing per-tick slices of a duration.
const timeEpsilon = 1e-9

// Action is an immutable description of timed behaviour. The same Action
// may be run on many nodes; each run keeps its own progress.
type Action interface {
	newRun() actionRun
}

// actionRun is one in-flight execution of an Action.
type actionRun interface {
	// step advances by dt seconds and returns the unused part of dt once
	// the action has finished.
	step(ctx runContext, dt float64) (rest float64, done bool)
}

type runContext struct {
	graph *Graph
	node  *Node // nil for scene-level runs
}

// timed tracks progress through a fixed duration.
type timed struct {
	duration float64
	elapsed  float64
}

// advance consumes up to dt and returns the slice used.
func (t *timed) advance(dt float64) (used float64, done bool) {
	used = min(dt, t.duration-t.elapsed)
	if used < 0 {
		used = 0
	}
	t.elapsed += used
	return used, t.elapsed >= t.duration-timeEpsilon
}

// MoveBy translates the node by (dx, dy) linearly over duration seconds.
// A zero duration moves it at once.
func MoveBy(dx, dy, duration float64) Action {
	return moveBy{delta: core.Vec{X: dx, Y: dy}, duration: max(duration, 0)}
}

type moveBy struct {
	delta    core.Vec
	duration float64
}

func (a moveBy) newRun() actionRun {
	return &moveRun{delta: a.delta, timed: timed{duration: a.duration}}
}

type moveRun struct {
	delta core.Vec
	timed
}

func (r *moveRun) step(ctx runContext, dt float64) (float64, bool) {
	if r.duration == 0 {
		if ctx.node != nil {
			ctx.node.Position = ctx.node.Position.Add(r.delta)
		}
		return dt, true
	}
	used, done := r.advance(dt)
	if ctx.node != nil {
		ctx.node.Position = ctx.node.Position.Add(r.delta.Scale(used / r.duration))
	}
	if done {
		return dt - used, true
	}
	return 0, false
}

// Wait does nothing for duration seconds.
func Wait(duration float64) Action {
	return wait{duration: max(duration, 0)}
}

type wait struct{ duration float64 }

func (a wait) newRun() actionRun { return &waitRun{timed{duration: a.duration}} }

type waitRun struct{ timed }

func (r *waitRun) step(_ runContext, dt float64) (float64, bool) {
	used, done := r.advance(dt)
	if done {
		return dt - used, true
	}
	return 0, false
}

// RunFunc calls f once, taking no time.
func RunFunc(f func()) Action {
	return runFunc{f: f}
}

type runFunc struct{ f func() }

func (a runFunc) newRun() actionRun { return a }

func (a runFunc) step(_ runContext, dt float64) (float64, bool) {
	a.f()
	return dt, true
}

// RemoveFromParent detaches the running node from the scene.
func RemoveFromParent() Action {
	return removeFromParent{}
}

type removeFromParent struct{}

func (a removeFromParent) newRun() actionRun { return a }

func (a removeFromParent) step(ctx runContext, dt float64) (float64, bool) {
	if ctx.node != nil {
		ctx.graph.RemoveChild(ctx.node)
	}
	return dt, true
}

// Animate shows each texture in turn for timePerFrame seconds.
func Animate(frames []*assets.Texture, timePerFrame float64) Action {
	return animate{frames: frames, perFrame: timePerFrame}
}

type animate struct {
	frames   []*assets.Texture
	perFrame float64
}

func (a animate) newRun() actionRun {
	return &animateRun{animate: a, timed: timed{duration: a.perFrame * float64(len(a.frames))}}
}

type animateRun struct {
	animate
	timed
}

func (r *animateRun) step(ctx runContext, dt float64) (float64, bool) {
	if len(r.frames) == 0 || r.perFrame <= 0 {
		return dt, true
	}
	used, done := r.advance(dt)
	if ctx.node != nil {
		i := int(r.elapsed / r.perFrame)
		if done || i >= len(r.frames) {
			i = len(r.frames) - 1
		}
		ctx.node.Texture = r.frames[i]
	}
	if done {
		return dt - used, true
	}
	return 0, false
}

// Sequence runs actions one after another. Time left over when one
// finishes flows into the next within the same tick.
func Sequence(actions ...Action) Action {
	return sequence{actions: actions}
}

type sequence struct{ actions []Action }

func (a sequence) newRun() actionRun { return &sequenceRun{actions: a.actions} }

type sequenceRun struct {
	actions []Action
	i       int
	cur     actionRun
}

func (r *sequenceRun) step(ctx runContext, dt float64) (float64, bool) {
	for r.i < len(r.actions) {
		if r.cur == nil {
			r.cur = r.actions[r.i].newRun()
		}
		rest, done := r.cur.step(ctx, dt)
		if !done {
			return 0, false
		}
		dt = rest
		r.cur = nil
		r.i++
	}
	return dt, true
}

// RepeatForever restarts the action each time it finishes. An iteration
// that completes without consuming time ends the tick, so a zero-duration
// body runs once per tick instead of looping endlessly.
func RepeatForever(a Action) Action {
	return repeatForever{action: a}
}

type repeatForever struct{ action Action }

func (a repeatForever) newRun() actionRun { return &repeatRun{action: a.action} }

type repeatRun struct {
	action   Action
	cur      actionRun
	consumed float64 // time spent in the current iteration
}

func (r *repeatRun) step(ctx runContext, dt float64) (float64, bool) {
	for {
		if r.cur == nil {
			r.cur = r.action.newRun()
			r.consumed = 0
		}
		rest, done := r.cur.step(ctx, dt)
		r.consumed += dt - rest
		if !done {
			return 0, false
		}
		r.cur = nil
		if r.consumed <= timeEpsilon {
			return 0, false
		}
		dt = rest
	}
}
