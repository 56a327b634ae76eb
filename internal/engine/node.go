package engine

import (
	"github.com/vovakirdan/tui-flappy/internal/assets"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Node is an element of the scene graph. Position is the node's centre in
// world coordinates. A node draws its texture tiled over Size, or its Text
// when it has no texture, or nothing.
type Node struct {
	Name      string
	Position  core.Vec
	Size      core.Vec
	ZPosition float64
	Texture   *assets.Texture
	Text      string
	TextColor core.Color
	Hidden    bool

	body  Body
	order int // insertion order, breaks z ties
}

// NewSprite creates a node sized to its texture.
func NewSprite(name string, tex *assets.Texture) *Node {
	return &Node{Name: name, Texture: tex, Size: tex.Size()}
}

// NewLabel creates a text node.
func NewLabel(name, text string, color core.Color) *Node {
	return &Node{Name: name, Text: text, TextColor: color}
}

// Body returns the physics body attached to the node, if any.
func (n *Node) Body() Body { return n.body }

// SetBody is used by Engine implementations when attaching or detaching.
func (n *Node) SetBody(b Body) { n.body = b }

// Frame returns the node's bounds in world coordinates.
func (n *Node) Frame() core.RectF {
	return core.RectAround(n.Position, n.Size)
}

// Contains reports whether p lies within the node's frame.
func (n *Node) Contains(p core.Vec) bool {
	return n.Frame().Contains(p)
}
