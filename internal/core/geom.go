// Package core provides fundamental types and utilities for the scene platform.
// It contains no external dependencies (especially no Bubble Tea) to keep scene
// logic pure and testable.
package core

import "math"

// Rect represents an axis-aligned box of screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Vec is a point or displacement in world units.
// World space is y-up with the origin at the bottom-left of the frame.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// RectF is an axis-aligned box in world units; (X, Y) is the bottom-left corner.
type RectF struct {
	X, Y float64
	W, H float64
}

// RectAround returns the box of the given size centred on c.
func RectAround(c Vec, size Vec) RectF {
	return RectF{X: c.X - size.X/2, Y: c.Y - size.Y/2, W: size.X, H: size.Y}
}

// MidX returns the horizontal centre.
func (r RectF) MidX() float64 { return r.X + r.W/2 }

// MidY returns the vertical centre.
func (r RectF) MidY() float64 { return r.Y + r.H/2 }

// MaxX returns the right edge.
func (r RectF) MaxX() float64 { return r.X + r.W }

// MaxY returns the top edge.
func (r RectF) MaxY() float64 { return r.Y + r.H }

// Center returns the centre point.
func (r RectF) Center() Vec { return Vec{X: r.MidX(), Y: r.MidY()} }

// Contains reports whether p lies inside the box. Edges on the left and
// bottom are inclusive, right and top exclusive.
func (r RectF) Contains(p Vec) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// CellCenter converts a screen cell (column, row counted from the top) of a
// frame that is height rows tall into the world point at the cell's centre.
func CellCenter(col, row, height int) Vec {
	return Vec{X: float64(col) + 0.5, Y: float64(height-1-row) + 0.5}
}

// WorldToCell converts a world point into the screen cell containing it.
func WorldToCell(p Vec, height int) (col, row int) {
	col = int(math.Floor(p.X))
	row = height - 1 - int(math.Floor(p.Y))
	return col, row
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
