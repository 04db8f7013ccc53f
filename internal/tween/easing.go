package tween

import "math"

// Ease maps linear progress in [0, 1] to eased progress in [0, 1].
type Ease func(t float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 {
	return t
}

// EaseOutQuad decelerates to zero velocity.
func EaseOutQuad(t float64) float64 {
	return t * (2 - t)
}

// EaseInOutQuad accelerates until halfway, then decelerates.
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// EaseOutCubic decelerates harder than EaseOutQuad.
func EaseOutCubic(t float64) float64 {
	u := t - 1
	return u*u*u + 1
}

// Pulse rises from 0 to 1 at t=0.5 and falls back to 0 at t=1.
func Pulse(t float64) float64 {
	return math.Sin(math.Pi * t)
}

// Lerp interpolates between from and to.
func Lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}
