package sketch

import (
	"math"

	"github.com/chazu/sketch2asy/pkg/kernel"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Geometry is the interface for kind-specific element payloads.
type Geometry interface {
	// Kind names the geometry type, e.g. "LineSegment".
	Kind() string
	geometry() // marker method restricting implementations to this package
}

// ---------------------------------------------------------------------------
// Line segment
// ---------------------------------------------------------------------------

// LineSegment is a straight segment between two points.
type LineSegment struct {
	Start Coord
	End   Coord
}

func (LineSegment) Kind() string { return "LineSegment" }
func (LineSegment) geometry()    {}

// Length returns the distance between the endpoints.
func (l LineSegment) Length() float64 {
	return Vec(l.End).Sub(Vec(l.Start)).Length()
}

// ---------------------------------------------------------------------------
// Point
// ---------------------------------------------------------------------------

// Point is a sketch point. It is both a geometry element and a
// coordinate representation.
type Point struct {
	X, Y, Z float64
}

func (Point) Kind() string { return "Point" }
func (Point) geometry()    {}
func (Point) coord()       {}

// ---------------------------------------------------------------------------
// Circle and ellipse
// ---------------------------------------------------------------------------

// Circle is a full circle.
type Circle struct {
	Center Coord
	Radius float64
}

func (Circle) Kind() string { return "Circle" }
func (Circle) geometry()    {}

// Ellipse is a full ellipse. AngleXU is the angle of the major axis to
// the sketch X axis, in radians.
type Ellipse struct {
	Center      Coord
	MajorRadius float64
	MinorRadius float64
	AngleXU     float64
}

func (Ellipse) Kind() string { return "Ellipse" }
func (Ellipse) geometry()    {}

// ---------------------------------------------------------------------------
// Arcs
// ---------------------------------------------------------------------------

// ArcOfCircle runs counter-clockwise from StartAngle to EndAngle
// (radians) around Center.
type ArcOfCircle struct {
	Center     Coord
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

func (ArcOfCircle) Kind() string { return "ArcOfCircle" }
func (ArcOfCircle) geometry()    {}

// StartPoint returns the point at StartAngle.
func (a ArcOfCircle) StartPoint() Vector {
	return a.pointAt(a.StartAngle)
}

// EndPoint returns the point at EndAngle.
func (a ArcOfCircle) EndPoint() Vector {
	return a.pointAt(a.EndAngle)
}

func (a ArcOfCircle) pointAt(angle float64) Vector {
	c := Vec(a.Center)
	return Vector{X: c.X + a.Radius*math.Cos(angle), Y: c.Y + a.Radius*math.Sin(angle)}
}

// Sweep returns the counter-clockwise angle covered, in [0, 2π]. Equal
// angles give 0; a non-zero difference that is a whole turn gives 2π.
func (a ArcOfCircle) Sweep() float64 {
	d := a.EndAngle - a.StartAngle
	s := math.Mod(d, 2*math.Pi)
	if s < 0 {
		s += 2 * math.Pi
	}
	if s == 0 && d != 0 {
		return 2 * math.Pi
	}
	return s
}

// Length returns the arc length.
func (a ArcOfCircle) Length() float64 {
	return a.Radius * a.Sweep()
}

// ArcOfEllipse is part of an ellipse. The exporter has no rendering for
// it yet.
type ArcOfEllipse struct {
	Ellipse
	StartAngle float64
	EndAngle   float64
}

func (ArcOfEllipse) Kind() string { return "ArcOfEllipse" }
func (ArcOfEllipse) geometry()    {}

// Unknown stands in for host geometry this model has no type for.
type Unknown struct {
	Name string
}

func (u Unknown) Kind() string {
	if u.Name == "" {
		return "Unknown"
	}
	return u.Name
}
func (Unknown) geometry() {}

// ---------------------------------------------------------------------------
// B-spline
// ---------------------------------------------------------------------------

// BSplineCurve is a clamped, non-rational B-spline. Knots holds the full
// knot vector (len(Poles)+Degree+1 values); when empty a uniform clamped
// vector is assumed.
type BSplineCurve struct {
	Poles  []Coord
	Knots  []float64
	Degree int
}

func (BSplineCurve) Kind() string { return "BSplineCurve" }
func (BSplineCurve) geometry()    {}

// KnotVector returns Knots, or the uniform clamped vector if none is set.
func (b BSplineCurve) KnotVector() []float64 {
	if len(b.Knots) > 0 {
		return b.Knots
	}
	return kernel.ClampedKnots(len(b.Poles), b.Degree)
}

// StartPoint returns the first pole; a clamped curve starts there.
func (b BSplineCurve) StartPoint() Coord {
	if len(b.Poles) == 0 {
		return nil
	}
	return b.Poles[0]
}

// EndPoint returns the last pole.
func (b BSplineCurve) EndPoint() Coord {
	if len(b.Poles) == 0 {
		return nil
	}
	return b.Poles[len(b.Poles)-1]
}

// Check reports whether the curve can be decomposed.
func (b BSplineCurve) Check() error {
	return kernel.CheckSpline(len(b.Poles), b.KnotVector(), b.Degree)
}

// BezierCurve is one cubic piece of a decomposed B-spline.
type BezierCurve struct {
	Poles [4]Vector
}

// ToBezier converts the curve into a chain of cubic Bézier pieces.
func (b BSplineCurve) ToBezier() ([]BezierCurve, error) {
	cubics, err := b.cubics()
	if err != nil {
		return nil, err
	}
	out := make([]BezierCurve, len(cubics))
	for i, c := range cubics {
		for j, p := range c {
			out[i].Poles[j] = FromVec(p)
		}
	}
	return out, nil
}

// Length returns the curve length, or 0 if the curve is malformed.
func (b BSplineCurve) Length() float64 {
	cubics, err := b.cubics()
	if err != nil {
		return 0
	}
	return kernel.PathLength(cubics)
}

func (b BSplineCurve) cubics() ([]kernel.Cubic, error) {
	poles := make([]v2.Vec, len(b.Poles))
	for i, p := range b.Poles {
		poles[i] = Vec(p)
	}
	return kernel.Decompose(poles, b.KnotVector(), b.Degree)
}
