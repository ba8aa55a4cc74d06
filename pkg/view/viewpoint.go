// Package view holds the renderer's eye: where it is, which way it faces,
// and the trig derived from that facing.
package view

import (
	"math"

	"github.com/cfoust/portals/pkg/geom"
)

// Angle is a binary angle; a full turn is 1<<32, so sums wrap naturally.
type Angle uint32

const (
	Angle90  Angle = 0x40000000
	Angle180 Angle = 0x80000000
	Angle270 Angle = 0xc0000000
)

func AngleFromDegrees(degrees float64) Angle {
	turns := math.Mod(degrees/360, 1)
	if turns < 0 {
		turns += 1
	}
	return Angle(uint32(turns * (1 << 32)))
}

func (a Angle) Radians() float64 {
	return float64(a) * math.Pi / float64(Angle180)
}

func (a Angle) Degrees() float64 {
	return float64(a) * 180 / float64(Angle180)
}

type Viewpoint struct {
	Position geom.Vector
	Angle    Angle
	Sin      float64
	Cos      float64
}

func NewViewpoint(position geom.Vector, angle Angle) Viewpoint {
	v := Viewpoint{Position: position}
	v.SetAngle(angle)
	return v
}

func (v *Viewpoint) SetAngle(angle Angle) {
	v.Angle = angle
	v.Sin, v.Cos = math.Sincos(angle.Radians())
}

// Relocated returns a copy of v moved to position, facing the same way.
func (v Viewpoint) Relocated(position geom.Vector) Viewpoint {
	v.Position = position
	return v
}

// Rotated returns a copy of v turned by delta.
func (v Viewpoint) Rotated(delta Angle) Viewpoint {
	v.SetAngle(v.Angle + delta)
	return v
}
