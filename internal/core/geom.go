// Package core provides fundamental types and utilities shared by the
// simulation and the platform layer. It contains no external dependencies
// (especially no Bubble Tea) to keep the race logic pure and testable.
package core

import "math"

// Rect represents an axis-aligned box in screen cells.
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

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
// NaN clamps to min so a bad input never leaks into the simulation.
func ClampF(val, min, max float64) float64 {
	if val < min || math.IsNaN(val) {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Sign returns -1, 0 or 1.
func Sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

// Dist returns the euclidean distance between two world points.
func Dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
