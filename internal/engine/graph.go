package engine

import (
	"math"
	"slices"
	"unicode/utf8"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Graph is a flat scene graph with an action scheduler. It owns no
// physics; Engine implementations embed it and add bodies on top.
type Graph struct {
	frame    core.RectF
	nodes    []*Node
	runs     []*scheduled
	paused   bool
	nextID   int
	onRemove func(*Node)
}

type scheduled struct {
	node      *Node
	run       actionRun
	cancelled bool
}

// NewGraph creates an empty graph covering frame.
func NewGraph(frame core.RectF) *Graph {
	return &Graph{frame: frame}
}

// Frame returns the scene bounds in world coordinates.
func (g *Graph) Frame() core.RectF { return g.frame }

// OnRemove registers a hook called after a node leaves the graph.
func (g *Graph) OnRemove(f func(*Node)) { g.onRemove = f }

// AddChild appends n to the scene. Adding a node twice is a no-op.
func (g *Graph) AddChild(n *Node) {
	if g.Contains(n) {
		return
	}
	g.nextID++
	n.order = g.nextID
	g.nodes = append(g.nodes, n)
}

// RemoveChild detaches n and cancels the actions running on it.
func (g *Graph) RemoveChild(n *Node) {
	i := slices.Index(g.nodes, n)
	if i < 0 {
		return
	}
	g.nodes = slices.Delete(g.nodes, i, i+1)
	for _, s := range g.runs {
		if s.node == n {
			s.cancelled = true
		}
	}
	if g.onRemove != nil {
		g.onRemove(n)
	}
}

// Contains reports whether n is in the scene.
func (g *Graph) Contains(n *Node) bool {
	return slices.Contains(g.nodes, n)
}

// Children returns the scene's nodes in insertion order.
func (g *Graph) Children() []*Node {
	return slices.Clone(g.nodes)
}

// Run starts a on node n, or on the scene itself when n is nil.
func (g *Graph) Run(n *Node, a Action) {
	g.runs = append(g.runs, &scheduled{node: n, run: a.newRun()})
}

// PendingActions returns the number of runs that have not finished.
func (g *Graph) PendingActions() int {
	count := 0
	for _, s := range g.runs {
		if !s.cancelled {
			count++
		}
	}
	return count
}

// SetPaused halts or resumes time. Paused runs keep their progress.
func (g *Graph) SetPaused(paused bool) { g.paused = paused }

// Paused reports whether time is halted.
func (g *Graph) Paused() bool { return g.paused }

// Advance steps every action by dt seconds. Actions started during this
// call begin on the next one. Pausing mid-call stops the remaining runs.
func (g *Graph) Advance(dt float64) {
	if g.paused || dt <= 0 {
		return
	}
	current := len(g.runs)
	for i := 0; i < current; i++ {
		if g.paused {
			break
		}
		s := g.runs[i]
		if s.cancelled {
			continue
		}
		if _, done := s.run.step(runContext{graph: g, node: s.node}, dt); done {
			s.cancelled = true
		}
	}
	g.runs = slices.DeleteFunc(g.runs, func(s *scheduled) bool { return s.cancelled })
}

// Render draws visible nodes into dst in ascending z order, ties broken
// by insertion order. World row 0 is the bottom row of dst.
func (g *Graph) Render(dst *core.Screen) {
	ordered := slices.Clone(g.nodes)
	slices.SortStableFunc(ordered, func(a, b *Node) int {
		switch {
		case a.ZPosition < b.ZPosition:
			return -1
		case a.ZPosition > b.ZPosition:
			return 1
		default:
			return a.order - b.order
		}
	})
	for _, n := range ordered {
		drawNode(dst, n)
	}
}

func drawNode(dst *core.Screen, n *Node) {
	if n.Hidden {
		return
	}
	h := dst.Height()

	if tex := n.Texture; tex != nil {
		w, th := int(math.Round(n.Size.X)), int(math.Round(n.Size.Y))
		if w <= 0 || th <= 0 {
			w, th = tex.Width, tex.Height
		}
		left := int(math.Round(n.Position.X - float64(w)/2))
		bottom := int(math.Round(n.Position.Y - float64(th)/2))
		for ty := 0; ty < th; ty++ {
			row := h - 1 - (bottom + th - 1 - ty)
			if row < 0 || row >= h {
				continue
			}
			for tx := 0; tx < w; tx++ {
				if r, ok := tex.At(tx, ty); ok {
					dst.SetColored(left+tx, row, r, tex.Color)
				}
			}
		}
		return
	}

	if n.Text != "" {
		width := utf8.RuneCountInString(n.Text)
		left := int(math.Round(n.Position.X - float64(width)/2))
		col, row := core.WorldToCell(core.Vec{X: float64(left), Y: n.Position.Y}, h)
		dst.DrawTextColored(col, row, n.Text, n.TextColor)
	}
}
