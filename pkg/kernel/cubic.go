package kernel

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Cubic is a cubic Bézier segment given by its four control points.
type Cubic [4]v2.Vec

// Start returns the first control point.
func (c Cubic) Start() v2.Vec { return c[0] }

// End returns the last control point.
func (c Cubic) End() v2.Vec { return c[3] }

// At evaluates the curve at parameter t in [0, 1].
func (c Cubic) At(t float64) v2.Vec {
	s := 1 - t
	return c[0].MulScalar(s * s * s).
		Add(c[1].MulScalar(3 * s * s * t)).
		Add(c[2].MulScalar(3 * s * t * t)).
		Add(c[3].MulScalar(t * t * t))
}

// derivative evaluates dB/dt at t.
func (c Cubic) derivative(t float64) v2.Vec {
	s := 1 - t
	d0 := c[1].Sub(c[0])
	d1 := c[2].Sub(c[1])
	d2 := c[3].Sub(c[2])
	return d0.MulScalar(3 * s * s).
		Add(d1.MulScalar(6 * s * t)).
		Add(d2.MulScalar(3 * t * t))
}

// Gauss-Legendre nodes and weights on [-1, 1], 5 points.
var (
	glNodes   = [5]float64{0, -0.5384693101056831, 0.5384693101056831, -0.9061798459386640, 0.9061798459386640}
	glWeights = [5]float64{0.5688888888888889, 0.4786286704993665, 0.4786286704993665, 0.2369268850561891, 0.2369268850561891}
)

const (
	lengthTolerance = 1e-9
	maxLengthDepth  = 16
)

// Length returns the arc length of the segment.
func (c Cubic) Length() float64 {
	return c.lengthOn(0, 1, c.gauss(0, 1), 0)
}

func (c Cubic) gauss(a, b float64) float64 {
	half := (b - a) / 2
	mid := (a + b) / 2
	sum := 0.0
	for i, x := range glNodes {
		sum += glWeights[i] * c.derivative(mid+half*x).Length()
	}
	return sum * half
}

// lengthOn refines the integral on [a, b] until both halves agree with
// the whole within tolerance.
func (c Cubic) lengthOn(a, b, whole float64, depth int) float64 {
	mid := (a + b) / 2
	left := c.gauss(a, mid)
	right := c.gauss(mid, b)
	if depth >= maxLengthDepth || math.Abs(left+right-whole) <= lengthTolerance {
		return left + right
	}
	return c.lengthOn(a, mid, left, depth+1) + c.lengthOn(mid, b, right, depth+1)
}

// PathLength sums the lengths of consecutive cubic pieces.
func PathLength(pieces []Cubic) float64 {
	total := 0.0
	for _, p := range pieces {
		total += p.Length()
	}
	return total
}

// Bounds returns the axis-aligned box around the given points. The
// control polygon of a Bézier piece contains the curve, so passing
// control points yields a conservative box.
func Bounds(points []v2.Vec) sdf.Box2 {
	if len(points) == 0 {
		return sdf.Box2{}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = v2.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
		hi = v2.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
	}
	return sdf.Box2{Min: lo, Max: hi}
}
