package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/sketch2asy/pkg/errors"
	"github.com/chazu/sketch2asy/pkg/sketch"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites sketch source into something zygomys accepts:
//
//  1. :keyword becomes the string literal "__kw_keyword", so builtins can
//     tell keyword arguments apart without registering global symbols.
//  2. kebab-case identifiers become snake_case (arc-of-ellipse ->
//     arc_of_ellipse); zygomys would read the hyphen as subtraction.
//  3. ; line comments become // comments.
//
// String literals are copied through untouched.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"' || c == '`':
			end := skipString(b, i)
			out = append(out, b[i:end]...)
			i = end

		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// skipString returns the index just past the string literal starting at
// b[start]. Double-quoted strings honour backslash escapes; backtick
// strings are raw. An unterminated literal runs to the end of input.
func skipString(b []byte, start int) int {
	quote := b[start]
	i := start + 1
	for i < len(b) && b[i] != quote {
		if quote == '"' && b[i] == '\\' && i+1 < len(b) {
			i++
		}
		i++
	}
	if i < len(b) {
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing sketch values through the environment
// ---------------------------------------------------------------------------

// sexpCoord wraps a coordinate built by vec, pnt or xy.
type sexpCoord struct {
	coord sketch.Coord
}

func (c *sexpCoord) SexpString(ps *zygo.PrintState) string {
	x, y := sketch.XY(c.coord)
	switch c.coord.(type) {
	case sketch.Point:
		return fmt.Sprintf("(pnt %g %g)", x, y)
	case sketch.Array:
		return fmt.Sprintf("(xy %g %g)", x, y)
	default:
		return fmt.Sprintf("(vec %g %g)", x, y)
	}
}
func (c *sexpCoord) Type() *zygo.RegisteredType { return nil }

// sexpElement wraps a geometry element until a sketch form collects it.
type sexpElement struct {
	elem sketch.Element
}

func (e *sexpElement) SexpString(ps *zygo.PrintState) string {
	if e.elem.Construction {
		return fmt.Sprintf("(%s :construction true)", kindForm(e.elem.Geometry))
	}
	return fmt.Sprintf("(%s)", kindForm(e.elem.Geometry))
}
func (e *sexpElement) Type() *zygo.RegisteredType { return nil }

// sexpSketch is returned by the sketch form.
type sexpSketch struct {
	sketch *sketch.Sketch
}

func (s *sexpSketch) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(sketch %q)", s.sketch.Name)
}
func (s *sexpSketch) Type() *zygo.RegisteredType { return nil }

func kindForm(g sketch.Geometry) string {
	switch g.(type) {
	case sketch.LineSegment:
		return "line"
	case sketch.Point:
		return "point"
	case sketch.Circle:
		return "circle"
	case sketch.Ellipse:
		return "ellipse"
	case sketch.ArcOfCircle:
		return "arc"
	case sketch.ArcOfEllipse:
		return "arc-of-ellipse"
	case sketch.BSplineCurve:
		return "bspline"
	case nil:
		return "nil"
	default:
		return "unsupported " + g.Kind()
	}
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix marks keyword names rewritten by preprocessSource.
const kwPrefix = "__kw_"

// isKW reports whether s is a rewritten keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds a call's arguments split into keyword and positional parts.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A
// trailing keyword with no value maps to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// construction reads the optional :construction flag.
func (a kwArgs) construction() (bool, error) {
	v, ok := a.kw["construction"]
	if !ok {
		return false, nil
	}
	return toBool(v)
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from an integer or float Sexp.
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, errors.Newf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", errors.Newf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool accepts true/false, nil and numbers (non-zero is true). A bare
// trailing keyword arrives as nil and counts as set.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpInt:
		return v.Val != 0, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, errors.Newf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toCoord extracts a coordinate built by vec, pnt or xy, or taken from a
// point element.
func toCoord(s zygo.Sexp) (sketch.Coord, error) {
	switch v := s.(type) {
	case *sexpCoord:
		return v.coord, nil
	case *sexpElement:
		if p, ok := v.elem.Geometry.(sketch.Point); ok {
			return p, nil
		}
	}
	return nil, errors.Newf("expected coordinate (vec, pnt or xy), got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a Lisp list or array to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, errors.Newf("expected list or array, got %T", s)
}

// numbers extracts exactly len(names) numeric positional arguments.
func numbers(form string, args []zygo.Sexp, names ...string) ([]float64, error) {
	if len(args) != len(names) {
		return nil, errors.Newf("%s requires %d numeric arguments (%s), got %d",
			form, len(names), strings.Join(names, ", "), len(args))
	}
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: %s", form, names[i])
		}
		out[i] = f
	}
	return out, nil
}

// centerAnd reads a leading coordinate followed by named numbers.
func centerAnd(form string, args []zygo.Sexp, names ...string) (sketch.Coord, []float64, error) {
	if len(args) == 0 {
		return nil, nil, errors.Newf("%s requires a center coordinate", form)
	}
	c, err := toCoord(args[0])
	if err != nil {
		return nil, nil, errors.Wrapf(err, "%s: center", form)
	}
	vals, err := numbers(form, args[1:], names...)
	if err != nil {
		return nil, nil, err
	}
	return c, vals, nil
}

// coordinate builds the three coordinate constructors. Point and Vector
// take two or three components; Array takes any number.
func coordinate(form string, build func([]float64) sketch.Coord, fixed bool) zygo.ZlispUserFunction {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if fixed && (len(args) < 2 || len(args) > 3) {
			return zygo.SexpNull, errors.Newf("%s requires 2 or 3 arguments, got %d", form, len(args))
		}
		vals := make([]float64, len(args))
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, errors.Wrapf(err, "%s: component %d", form, i)
			}
			vals[i] = f
		}
		return &sexpCoord{coord: build(vals)}, nil
	}
}

func component(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

// element wraps g with the call's construction flag.
func element(form string, pa kwArgs, g sketch.Geometry) (zygo.Sexp, error) {
	c, err := pa.construction()
	if err != nil {
		return zygo.SexpNull, errors.Wrapf(err, "%s: construction", form)
	}
	return &sexpElement{elem: sketch.Element{Geometry: g, Construction: c}}, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the sketch description builtins into env.
// Sketch forms add to doc as they are evaluated. Source must be run
// through preprocessSource first so keywords are recognisable.
func registerBuiltins(env *zygo.Zlisp, doc *sketch.Document) {

	// (vec 1 2) (vec 1 2 3)
	env.AddFunction("vec", coordinate("vec", func(v []float64) sketch.Coord {
		return sketch.Vector{X: v[0], Y: v[1], Z: component(v, 2)}
	}, true))

	// (pnt 1 2) (pnt 1 2 3)
	env.AddFunction("pnt", coordinate("pnt", func(v []float64) sketch.Coord {
		return sketch.Point{X: v[0], Y: v[1], Z: component(v, 2)}
	}, true))

	// (xy 1 2 ...)
	env.AddFunction("xy", coordinate("xy", func(v []float64) sketch.Coord {
		return sketch.Array(v)
	}, false))

	// -----------------------------------------------------------------------
	// (line start end :construction false)
	// -----------------------------------------------------------------------
	env.AddFunction("line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, errors.Newf("line requires start and end coordinates, got %d arguments", len(pa.positional))
		}
		start, err := toCoord(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "line: start")
		}
		end, err := toCoord(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "line: end")
		}
		return element("line", pa, sketch.LineSegment{Start: start, End: end})
	})

	// -----------------------------------------------------------------------
	// (point (pnt 2 3))
	// -----------------------------------------------------------------------
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, errors.Newf("point requires one coordinate, got %d arguments", len(pa.positional))
		}
		c, err := toCoord(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "point")
		}
		p, ok := c.(sketch.Point)
		if !ok {
			x, y := sketch.XY(c)
			p = sketch.Point{X: x, Y: y}
		}
		return element("point", pa, p)
	})

	// -----------------------------------------------------------------------
	// (circle center radius)
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c, v, err := centerAnd("circle", pa.positional, "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		return element("circle", pa, sketch.Circle{Center: c, Radius: v[0]})
	})

	// -----------------------------------------------------------------------
	// (ellipse center major minor :angle 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("ellipse", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		e, err := ellipseArgs("ellipse", pa, pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		return element("ellipse", pa, e)
	})

	// -----------------------------------------------------------------------
	// (arc center radius start-angle end-angle)
	// -----------------------------------------------------------------------
	env.AddFunction("arc", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c, v, err := centerAnd("arc", pa.positional, "radius", "start", "end")
		if err != nil {
			return zygo.SexpNull, err
		}
		return element("arc", pa, sketch.ArcOfCircle{Center: c, Radius: v[0], StartAngle: v[1], EndAngle: v[2]})
	})

	// -----------------------------------------------------------------------
	// (arc-of-ellipse center major minor start-angle end-angle :angle 0)
	// Registered with an underscore; see preprocessSource.
	// -----------------------------------------------------------------------
	env.AddFunction("arc_of_ellipse", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 5 {
			return zygo.SexpNull, errors.Newf("arc-of-ellipse requires center, major, minor, start and end, got %d arguments", len(pa.positional))
		}
		e, err := ellipseArgs("arc-of-ellipse", pa, pa.positional[:3])
		if err != nil {
			return zygo.SexpNull, err
		}
		angles, err := numbers("arc-of-ellipse", pa.positional[3:], "start", "end")
		if err != nil {
			return zygo.SexpNull, err
		}
		return element("arc-of-ellipse", pa, sketch.ArcOfEllipse{Ellipse: e, StartAngle: angles[0], EndAngle: angles[1]})
	})

	// -----------------------------------------------------------------------
	// (bspline :poles (list (vec 0 0) ...) :degree 3 :knots (list 0 0 0 0 1 1 1 1))
	// -----------------------------------------------------------------------
	env.AddFunction("bspline", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		b := sketch.BSplineCurve{Degree: 3}

		v, ok := pa.kw["poles"]
		if !ok {
			return zygo.SexpNull, errors.New("bspline requires :poles")
		}
		items, err := sexpListToSlice(v)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "bspline: poles")
		}
		for i, item := range items {
			c, err := toCoord(item)
			if err != nil {
				return zygo.SexpNull, errors.Wrapf(err, "bspline: pole %d", i)
			}
			b.Poles = append(b.Poles, c)
		}

		if v, ok := pa.kw["degree"]; ok {
			d, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, errors.Wrap(err, "bspline: degree")
			}
			b.Degree = int(d)
		}
		if v, ok := pa.kw["knots"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, errors.Wrap(err, "bspline: knots")
			}
			for i, item := range items {
				k, err := toFloat64(item)
				if err != nil {
					return zygo.SexpNull, errors.Wrapf(err, "bspline: knot %d", i)
				}
				b.Knots = append(b.Knots, k)
			}
		}
		return element("bspline", pa, b)
	})

	// -----------------------------------------------------------------------
	// (unsupported "ArcOfHyperbola")
	// Stands in for geometry kinds the exporter cannot draw.
	// -----------------------------------------------------------------------
	env.AddFunction("unsupported", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, errors.New("unsupported requires a kind name")
		}
		kind, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "unsupported: kind")
		}
		return element("unsupported", pa, sketch.Unknown{Name: kind})
	})

	// -----------------------------------------------------------------------
	// (sketch "name" (line ...) (circle ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("sketch", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, errors.New("sketch requires a name argument")
		}
		sketchName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "sketch: name")
		}

		s := &sketch.Sketch{Name: sketchName}
		for i := 1; i < len(args); i++ {
			if err := collect(s, args[i]); err != nil {
				return zygo.SexpNull, errors.Wrapf(err, "sketch %q: element %d", sketchName, i-1)
			}
		}
		doc.AddSketch(s)
		return &sexpSketch{sketch: s}, nil
	})

	// -----------------------------------------------------------------------
	// (edit "name")
	// -----------------------------------------------------------------------
	env.AddFunction("edit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, errors.New("edit requires a sketch name")
		}
		var target string
		switch v := args[0].(type) {
		case *sexpSketch:
			target = v.sketch.Name
		default:
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, errors.Wrap(err, "edit: name")
			}
			target = s
		}
		if err := doc.Edit(target); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})
}

// collect appends an element, or every element of a list, to s.
func collect(s *sketch.Sketch, arg zygo.Sexp) error {
	switch v := arg.(type) {
	case *sexpElement:
		s.Elements = append(s.Elements, v.elem)
		return nil
	case *zygo.SexpPair, *zygo.SexpArray:
		items, err := sexpListToSlice(v)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := collect(s, item); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.Newf("expected geometry, got %T (%s)", arg, arg.SexpString(nil))
}

func ellipseArgs(form string, pa kwArgs, args []zygo.Sexp) (sketch.Ellipse, error) {
	c, v, err := centerAnd(form, args, "major", "minor")
	if err != nil {
		return sketch.Ellipse{}, err
	}
	e := sketch.Ellipse{Center: c, MajorRadius: v[0], MinorRadius: v[1]}
	if a, ok := pa.kw["angle"]; ok {
		angle, err := toFloat64(a)
		if err != nil {
			return sketch.Ellipse{}, errors.Wrapf(err, "%s: angle", form)
		}
		e.AngleXU = angle
	}
	return e, nil
}
