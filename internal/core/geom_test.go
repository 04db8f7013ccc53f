package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	assert.Equal(t, 25, r.Right())
	assert.Equal(t, 25, r.Bottom())
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, Clamp(tc.val, tc.min, tc.max), "Clamp(%d, %d, %d)", tc.val, tc.min, tc.max)
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
		{math.NaN(), 40, 90, 40},
		{math.Inf(1), 40, 90, 90},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, ClampF(tc.val, tc.min, tc.max), "ClampF(%f, %f, %f)", tc.val, tc.min, tc.max)
	}
}

func TestSign(t *testing.T) {
	assert.Equal(t, -1, Sign(-7))
	assert.Equal(t, 0, Sign(0))
	assert.Equal(t, 1, Sign(3))
}

func TestDist(t *testing.T) {
	assert.InDelta(t, 5.0, Dist(0, 0, 3, 4), 1e-12)
}
