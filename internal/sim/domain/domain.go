package domain

import (
	"fmt"

	"cellseed.ai/internal/sim/model"
)

// Bounds is the axis-aligned simulation volume agents may be placed in.
type Bounds struct {
	Min  model.Vec3
	Max  model.Vec3
	TwoD bool
}

// New builds bounds from the mesh extent. In 2D the Z extent collapses to [0,0]
// whatever the mesh says.
func New(lo, hi model.Vec3, twoD bool) (Bounds, error) {
	b := Bounds{Min: lo, Max: hi, TwoD: twoD}
	if twoD {
		b.Min.Z, b.Max.Z = 0, 0
	}
	for i, axis := range [3]string{"x", "y", "z"} {
		if b.Min.Axis(i) > b.Max.Axis(i) {
			return Bounds{}, fmt.Errorf("domain %s_min %g > %s_max %g", axis, b.Min.Axis(i), axis, b.Max.Axis(i))
		}
	}
	return b, nil
}

// Range returns max-min per axis.
func (b Bounds) Range() model.Vec3 {
	return model.Vec3{X: b.Max.X - b.Min.X, Y: b.Max.Y - b.Min.Y, Z: b.Max.Z - b.Min.Z}
}

// Contains reports whether p lies inside the closed box.
func (b Bounds) Contains(p model.Vec3) bool {
	for i := 0; i < 3; i++ {
		v := p.Axis(i)
		if v < b.Min.Axis(i) || v > b.Max.Axis(i) {
			return false
		}
	}
	return true
}

// Sample draws a position with one independent uniform draw per axis.
// u must return values in [0,1).
func (b Bounds) Sample(u func() float64) model.Vec3 {
	r := b.Range()
	return model.Vec3{
		X: b.Min.X + u()*r.X,
		Y: b.Min.Y + u()*r.Y,
		Z: b.Min.Z + u()*r.Z,
	}
}

func (b Bounds) String() string {
	dim := "3D"
	if b.TwoD {
		dim = "2D"
	}
	return fmt.Sprintf("%s x=[%g,%g] y=[%g,%g] z=[%g,%g]", dim, b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z)
}
