package sketch

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Coord is any of the point representations a sketch hands out.
// The set is closed: Vector, Point and Array.
type Coord interface {
	coord() // marker method restricting implementations to this package
}

// Vector is a free 3D vector; only X and Y are used by a 2D sketch.
type Vector struct {
	X, Y, Z float64
}

func (Vector) coord() {}

// Array is a raw numeric array, [x, y, ...].
type Array []float64

func (Array) coord() {}

// XY returns the planar components of c. Unrecognised representations,
// including nil, yield (0, 0) rather than an error so one odd point does
// not abort a whole export.
func XY(c Coord) (x, y float64) {
	switch p := c.(type) {
	case Vector:
		return p.X, p.Y
	case *Vector:
		if p != nil {
			return p.X, p.Y
		}
	case Point:
		return p.X, p.Y
	case *Point:
		if p != nil {
			return p.X, p.Y
		}
	case Array:
		if len(p) > 0 {
			x = p[0]
		}
		if len(p) > 1 {
			y = p[1]
		}
		return x, y
	}
	return 0, 0
}

// Vec converts c to an sdfx vector via XY.
func Vec(c Coord) v2.Vec {
	x, y := XY(c)
	return v2.Vec{X: x, Y: y}
}

// FromVec wraps an sdfx vector as a Vector coordinate.
func FromVec(v v2.Vec) Vector {
	return Vector{X: v.X, Y: v.Y}
}
