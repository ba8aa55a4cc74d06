package geom

import (
	"fmt"
	"math"
)

type Vector struct {
	X, Y, Z float64
}

func NewVector(x, y, z float64) Vector {
	return Vector{x, y, z}
}

func (v Vector) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vector) Add(o Vector) Vector {
	return NewVector(v.X+o.X, v.Y+o.Y, v.Z+o.Z)
}

func (v Vector) Sub(o Vector) Vector {
	return NewVector(v.X-o.X, v.Y-o.Y, v.Z-o.Z)
}

func (v Vector) Mul(k float64) Vector {
	return NewVector(v.X*k, v.Y*k, v.Z*k)
}

func (v Vector) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Midpoint of the segment a-b.
func Midpoint(a, b Vector) Vector {
	return a.Add(b).Mul(0.5)
}
