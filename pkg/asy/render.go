package asy

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/sketch2asy/pkg/sketch"
)

// Renderer turns sketch elements into Asymptote statements, resolving
// every referenced point through a shared Registry.
type Renderer struct {
	policy Policy
	pairs  *Registry
}

// NewRenderer creates a renderer writing symbols into pairs.
func NewRenderer(p Policy, pairs *Registry) *Renderer {
	return &Renderer{policy: p, pairs: pairs}
}

// Render returns the statement for one element, terminated by a single
// newline, or "" when the policy drops it. Unsupported kinds become a
// comment line; Render never fails.
func (r *Renderer) Render(e sketch.Element) string {
	switch g := e.Geometry.(type) {
	case sketch.LineSegment:
		return r.lineSegment(g, e.Construction)
	case sketch.Point:
		return r.point(g, e.Construction)
	case sketch.Circle:
		return r.circle(g, e.Construction)
	case sketch.Ellipse:
		return r.ellipse(g, e.Construction)
	case sketch.ArcOfCircle:
		return r.arcOfCircle(g, e.Construction)
	case sketch.BSplineCurve:
		return r.bSpline(g, e.Construction)
	default:
		return notImplemented(e.Geometry)
	}
}

func notImplemented(g sketch.Geometry) string {
	kind := "Unknown"
	if g != nil {
		kind = g.Kind()
	}
	return fmt.Sprintf("// %s is not implemented yet.\n", kind)
}

// path p1--p2
func (r *Renderer) lineSegment(g sketch.LineSegment, construction bool) string {
	p1 := r.pairs.Resolve(g.Start)
	p2 := r.pairs.Resolve(g.End)
	return r.draw(p1+"--"+p2, construction, r.num(g.Length()))
}

// dot(pair p)
func (r *Renderer) point(g sketch.Point, construction bool) string {
	p := r.pairs.Resolve(g)
	line := "dot(" + p + ");"
	if pen := r.pen(construction); pen != "" {
		line = "dot(" + p + ", " + pen + ");"
	}

	switch {
	case construction && r.policy.SkipConstruction:
		return ""
	case construction && r.policy.CommentConstruction:
		return "// " + line + "\n"
	}
	return line + "\n"
}

// path circle(pair c, real r)
func (r *Renderer) circle(g sketch.Circle, construction bool) string {
	c := r.pairs.Resolve(g.Center)
	return r.draw(fmt.Sprintf("circle(%s, %s)", c, r.num(g.Radius)), construction, "")
}

// path shift(pair c)*rotate(angle)*scale(real a, real b)*unitcircle
func (r *Renderer) ellipse(g sketch.Ellipse, construction bool) string {
	c := r.pairs.Resolve(g.Center)
	angle := r.num(g.AngleXU * 180 / math.Pi)
	path := fmt.Sprintf("shift(%s)*rotate(%s)*scale(%s, %s)*unitcircle",
		c, angle, r.num(g.MajorRadius), r.num(g.MinorRadius))
	return r.draw(path, construction, "")
}

// path arc(pair c, explicit pair z1, explicit pair z2, bool direction=CCW)
func (r *Renderer) arcOfCircle(g sketch.ArcOfCircle, construction bool) string {
	c := r.pairs.Resolve(g.Center)
	z1 := r.pairs.Resolve(g.StartPoint())
	z2 := r.pairs.Resolve(g.EndPoint())
	return r.draw(fmt.Sprintf("arc(%s, %s, %s)", c, z1, z2), construction, r.num(g.Length()))
}

// z0..controls c0 and c1..z1 for every cubic piece
func (r *Renderer) bSpline(g sketch.BSplineCurve, construction bool) string {
	pieces, err := g.ToBezier()
	if err != nil {
		return fmt.Sprintf("// %s could not be converted: %s.\n", g.Kind(), singleLine(err.Error()))
	}

	var path strings.Builder
	path.WriteString(r.pairs.Resolve(g.StartPoint()))
	for _, b := range pieces {
		c0 := r.pairs.Resolve(b.Poles[1])
		c1 := r.pairs.Resolve(b.Poles[2])
		z1 := r.pairs.Resolve(b.Poles[3])
		fmt.Fprintf(&path, "..controls %s and %s..%s", c0, c1, z1)
	}
	return r.draw(path.String(), construction, r.num(g.Length()))
}

// draw emits draw(path[, pen]); aligned to the comment column.
func (r *Renderer) draw(path string, construction bool, comment string) string {
	if comment != "" {
		comment = "// " + comment
	}
	line := "draw(" + path + ");"
	if pen := r.pen(construction); pen != "" {
		line = "draw(" + path + ", " + pen + ");"
	}

	switch {
	case construction && r.policy.SkipConstruction:
		return ""
	case construction && r.policy.CommentConstruction:
		return "// " + r.align(line, comment)
	}
	return r.align(line, comment)
}

func (r *Renderer) align(line, comment string) string {
	return fmt.Sprintf("%-*s %s\n", r.policy.CommentsIndent, line, comment)
}

// pen returns the pen argument for an element, "" for the default pen.
func (r *Renderer) pen(construction bool) string {
	if construction {
		return r.policy.ConstructionPenName
	}
	return ""
}

func (r *Renderer) num(x float64) string {
	return FormatNumber(x, r.policy.Accuracy)
}

func singleLine(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
