package sketch

import (
	"math"

	"github.com/chazu/sketch2asy/pkg/errors"
	"github.com/chazu/sketch2asy/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Element is one entry of a sketch's geometry list.
type Element struct {
	Geometry     Geometry
	Construction bool // helper geometry, not part of the profile
}

// Sketch is an ordered list of geometry elements. Order matters: the
// exporter emits statements in this order.
type Sketch struct {
	Name     string
	Elements []Element
}

// Add appends a geometry element.
func (s *Sketch) Add(g Geometry, construction bool) {
	s.Elements = append(s.Elements, Element{Geometry: g, Construction: construction})
}

// Len returns the number of elements.
func (s *Sketch) Len() int {
	return len(s.Elements)
}

// Bounds returns a box around the characteristic points of every element
// (endpoints, centers extended by radius, control polygons).
func (s *Sketch) Bounds() sdf.Box2 {
	var pts []v2.Vec
	for _, e := range s.Elements {
		pts = append(pts, extent(e.Geometry)...)
	}
	return kernel.Bounds(pts)
}

func extent(g Geometry) []v2.Vec {
	square := func(c v2.Vec, r float64) []v2.Vec {
		r = math.Abs(r)
		return []v2.Vec{{X: c.X - r, Y: c.Y - r}, {X: c.X + r, Y: c.Y + r}}
	}
	switch d := g.(type) {
	case LineSegment:
		return []v2.Vec{Vec(d.Start), Vec(d.End)}
	case Point:
		return []v2.Vec{Vec(d)}
	case Circle:
		return square(Vec(d.Center), d.Radius)
	case Ellipse:
		return square(Vec(d.Center), d.MajorRadius)
	case ArcOfEllipse:
		return square(Vec(d.Center), d.MajorRadius)
	case ArcOfCircle:
		return []v2.Vec{Vec(d.StartPoint()), Vec(d.EndPoint())}
	case BSplineCurve:
		pts := make([]v2.Vec, len(d.Poles))
		for i, p := range d.Poles {
			pts[i] = Vec(p)
		}
		return pts
	}
	return nil
}

// Document holds the sketches produced by one evaluation and which of
// them, if any, is open for editing.
type Document struct {
	Sketches []*Sketch
	InEdit   string // name of the sketch in edit mode; empty if none
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// AddSketch appends a sketch. It does not check for duplicate names.
func (d *Document) AddSketch(s *Sketch) {
	d.Sketches = append(d.Sketches, s)
}

// Lookup returns the first sketch with the given name, or nil.
func (d *Document) Lookup(name string) *Sketch {
	for _, s := range d.Sketches {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Edit puts the named sketch in edit mode.
func (d *Document) Edit(name string) error {
	if d.Lookup(name) == nil {
		return errors.Wrapf(errors.ErrNotFound, "sketch %q", name)
	}
	d.InEdit = name
	return nil
}

// Active returns the sketch in edit mode.
func (d *Document) Active() (*Sketch, error) {
	if d == nil || d.InEdit == "" {
		return nil, errors.ErrNoActiveSketch
	}
	s := d.Lookup(d.InEdit)
	if s == nil {
		return nil, errors.Wrapf(errors.ErrNoActiveSketch, "sketch %q is not in the document", d.InEdit)
	}
	return s, nil
}
