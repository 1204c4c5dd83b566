package model

import "fmt"

// Vec3 is a position or displacement in microns.
type Vec3 struct{ X, Y, Z float64 }

func (v Vec3) Slice() []float64 { return []float64{v.X, v.Y, v.Z} }

func (v Vec3) Axis(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func (v Vec3) String() string { return fmt.Sprintf("[%g,%g,%g]", v.X, v.Y, v.Z) }

// Vec3FromSlice reads the first three components of s; missing ones are zero.
func Vec3FromSlice(s []float64) Vec3 {
	var v Vec3
	if len(s) > 0 {
		v.X = s[0]
	}
	if len(s) > 1 {
		v.Y = s[1]
	}
	if len(s) > 2 {
		v.Z = s[2]
	}
	return v
}
