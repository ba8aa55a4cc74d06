package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorArithmetic(t *testing.T) {
	a := NewVector(1, 2, 3)
	b := NewVector(4, 6, 3)

	assert.Equal(t, NewVector(5, 8, 6), a.Add(b))
	assert.Equal(t, NewVector(3, 4, 0), b.Sub(a))
	assert.Equal(t, NewVector(2, 4, 6), a.Mul(2))
	assert.Equal(t, 5.0, b.Sub(a).Magnitude())
	assert.True(t, Vector{}.IsZero())
	assert.False(t, a.IsZero())
}

func TestMidpoint(t *testing.T) {
	assert.Equal(t, NewVector(64, -32, 0), Midpoint(NewVector(0, 0, 0), NewVector(128, -64, 0)))
}
