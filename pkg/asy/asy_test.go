package asy

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/sketch2asy/pkg/errors"
	"github.com/chazu/sketch2asy/pkg/sketch"
)

var exportTime = time.Date(2022, 12, 16, 9, 30, 5, 0, time.UTC)

func vec(x, y float64) sketch.Vector { return sketch.Vector{X: x, Y: y} }

func newSketch(elems ...sketch.Element) *sketch.Sketch {
	return &sketch.Sketch{Name: "test", Elements: elems}
}

// aligned pads stmt to the default comment column.
func aligned(stmt, comment string) string {
	return stmt + strings.Repeat(" ", DefaultCommentsIndent-len(stmt)) + " " + comment + "\n"
}

func el(g sketch.Geometry, construction bool) sketch.Element {
	return sketch.Element{Geometry: g, Construction: construction}
}

// ---------------------------------------------------------------------------
// Numeric formatting
// ---------------------------------------------------------------------------

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		x        float64
		accuracy int
		want     string
	}{
		{0, 2, " 0.00"},
		{10, 2, " 10.00"},
		{-1.5, 2, "-1.50"},
		{1.005, 3, " 1.005"},
		{2.5, 0, "2.5"},
		{10, 0, "10"},
		{1234567, -1, "1.23457e+06"},
		{0.1, 0, "0.1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.x, tt.accuracy), "FormatNumber(%v, %d)", tt.x, tt.accuracy)
	}
}

func TestFormatFixedPointRoundTrip(t *testing.T) {
	for _, x := range []float64{0, 1, -1, 3.14159, 1e3, -27.125} {
		s := strings.TrimSpace(FormatNumber(x, 2))
		back, err := strconv.ParseFloat(s, 64)
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(back-x), 0.005, "round trip of %v via %q", x, s)
	}
}

func TestFormatPair(t *testing.T) {
	assert.Equal(t, "( 0.00,  0.00)", FormatPair(0, 0, 2))
	assert.Equal(t, "(-1.0,  2.0)", FormatPair(-1, 2, 1))
	assert.Equal(t, "(1, 2)", FormatPair(1, 2, 0))
}

// ---------------------------------------------------------------------------
// Pair registry
// ---------------------------------------------------------------------------

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry(2)

	assert.Equal(t, "P0", r.Resolve(vec(0, 0)))
	assert.Equal(t, "P1", r.Resolve(sketch.Point{X: 10}))
	assert.Equal(t, "P0", r.Resolve(sketch.Array{0, 0, 7}), "same formatted pair resolves to the same symbol")
	assert.Equal(t, 2, r.Len())

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Pair: "( 0.00,  0.00)", Symbol: "P0"}, entries[0])
	assert.Equal(t, Entry{Pair: "( 10.00,  0.00)", Symbol: "P1"}, entries[1])

	entries[0].Symbol = "mutated"
	assert.Equal(t, "P0", r.Entries()[0].Symbol, "Entries returns a copy")
}

func TestRegistryPrecisionCollapse(t *testing.T) {
	coarse := NewRegistry(1)
	a := coarse.Resolve(vec(1.01, 0))
	b := coarse.Resolve(vec(1.04, 0))
	assert.Equal(t, a, b, "points closer than the output precision share a symbol")
	assert.Equal(t, 1, coarse.Len())

	fine := NewRegistry(3)
	assert.NotEqual(t, fine.Resolve(vec(1.01, 0)), fine.Resolve(vec(1.04, 0)))
}

func TestRegistryRawDoesNotRegister(t *testing.T) {
	r := NewRegistry(2)
	assert.Equal(t, "( 3.00,  4.00)", r.Raw(vec(3, 4)))
	assert.Zero(t, r.Len())
}

func TestRegistryUnrecognisedCoordinateIsOrigin(t *testing.T) {
	r := NewRegistry(2)
	assert.Equal(t, "P0", r.Resolve(nil))
	assert.Equal(t, "P0", r.Resolve(vec(0, 0)))
}

// ---------------------------------------------------------------------------
// Renderers
// ---------------------------------------------------------------------------

func TestRenderKinds(t *testing.T) {
	tests := []struct {
		name string
		g    sketch.Geometry
		want string
	}{
		{
			name: "line",
			g:    sketch.LineSegment{Start: vec(0, 0), End: vec(3, 4)},
			want: aligned("draw(P0--P1);", "//  5.00"),
		},
		{
			name: "point",
			g:    sketch.Point{X: 2, Y: 3},
			want: "dot(P0);\n",
		},
		{
			name: "circle",
			g:    sketch.Circle{Center: vec(1, 1), Radius: 5},
			want: aligned("draw(circle(P0,  5.00));", ""),
		},
		{
			name: "ellipse",
			g:    sketch.Ellipse{Center: vec(0, 0), MajorRadius: 5, MinorRadius: 2, AngleXU: math.Pi / 2},
			want: "draw(shift(P0)*rotate( 90.00)*scale( 5.00,  2.00)*unitcircle); \n",
		},
		{
			name: "arc",
			g:    sketch.ArcOfCircle{Center: vec(0, 0), Radius: 2, StartAngle: 0, EndAngle: math.Pi},
			want: aligned("draw(arc(P0, P1, P2));", "//  6.28"),
		},
		{
			name: "unsupported",
			g:    sketch.Unknown{Name: "ArcOfHyperbola"},
			want: "// ArcOfHyperbola is not implemented yet.\n",
		},
		{
			name: "arc of ellipse",
			g:    sketch.ArcOfEllipse{},
			want: "// ArcOfEllipse is not implemented yet.\n",
		},
		{
			name: "nil geometry",
			g:    nil,
			want: "// Unknown is not implemented yet.\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(DefaultPolicy(), NewRegistry(2))
			assert.Equal(t, tt.want, r.Render(el(tt.g, false)))
		})
	}
}

func TestRenderArcResolutionOrder(t *testing.T) {
	pairs := NewRegistry(2)
	r := NewRenderer(DefaultPolicy(), pairs)
	r.Render(el(sketch.ArcOfCircle{Center: vec(0, 0), Radius: 1, StartAngle: 0, EndAngle: math.Pi / 2}, false))

	entries := pairs.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "( 0.00,  0.00)", entries[0].Pair, "center first")
	assert.Equal(t, "( 1.00,  0.00)", entries[1].Pair, "then start")
	assert.Equal(t, "( 0.00,  1.00)", entries[2].Pair, "then end")
}

func TestRenderBSpline(t *testing.T) {
	pairs := NewRegistry(2)
	r := NewRenderer(DefaultPolicy(), pairs)
	g := sketch.BSplineCurve{
		Poles:  []sketch.Coord{vec(0, 0), vec(1, 2), vec(3, 2), vec(4, 0)},
		Degree: 3,
	}
	got := r.Render(el(g, false))

	assert.True(t, strings.HasPrefix(got, "draw(P0..controls P1 and P2..P3);"), "got %q", got)
	assert.Equal(t, 4, pairs.Len())
	assert.Equal(t, 1, strings.Count(got, "\n"))
	assert.Contains(t, got, "// ")
}

func TestRenderBSplineTwoPieces(t *testing.T) {
	pairs := NewRegistry(3)
	r := NewRenderer(DefaultPolicy(), pairs)
	g := sketch.BSplineCurve{
		Poles:  []sketch.Coord{vec(0, 0), vec(1, 3), vec(2, -1), vec(3, 3), vec(4, 0)},
		Knots:  []float64{0, 0, 0, 0, 0.5, 1, 1, 1, 1},
		Degree: 3,
	}
	got := r.Render(el(g, false))
	assert.Equal(t, 2, strings.Count(got, "..controls"), "got %q", got)
	assert.True(t, strings.HasPrefix(got, "draw(P0..controls P1 and "), "got %q", got)
}

func TestRenderBSplineMalformed(t *testing.T) {
	r := NewRenderer(DefaultPolicy(), NewRegistry(2))
	got := r.Render(el(sketch.BSplineCurve{Poles: []sketch.Coord{vec(0, 0)}, Degree: 3}, false))
	assert.True(t, strings.HasPrefix(got, "// BSplineCurve could not be converted: "), "got %q", got)
	assert.Equal(t, 1, strings.Count(got, "\n"))
}

func TestRenderBSplineKnotAboveDegree(t *testing.T) {
	poles := make([]sketch.Coord, 8)
	for i := range poles {
		poles[i] = vec(float64(i), float64(i%2))
	}
	g := sketch.BSplineCurve{
		Poles:  poles,
		Knots:  []float64{0, 0, 0, 0, 0.5, 0.5, 0.5, 0.5, 1, 1, 1, 1},
		Degree: 3,
	}
	require.Error(t, g.Check())

	r := NewRenderer(DefaultPolicy(), NewRegistry(2))
	var got string
	require.NotPanics(t, func() { got = r.Render(el(g, false)) })
	assert.True(t, strings.HasPrefix(got, "// BSplineCurve could not be converted: "), "got %q", got)
	assert.Equal(t, 1, strings.Count(got, "\n"))
}

func TestRenderEndsWithSingleNewline(t *testing.T) {
	geoms := []sketch.Geometry{
		sketch.LineSegment{Start: vec(0, 0), End: vec(1, 0)},
		sketch.Point{},
		sketch.Circle{Center: vec(0, 0), Radius: 1},
		sketch.Ellipse{Center: vec(0, 0), MajorRadius: 2, MinorRadius: 1},
		sketch.ArcOfCircle{Center: vec(0, 0), Radius: 1, EndAngle: 1},
		sketch.BSplineCurve{Poles: []sketch.Coord{vec(0, 0), vec(1, 1)}, Degree: 1},
		sketch.Unknown{Name: "Thing"},
	}
	for _, construction := range []bool{false, true} {
		r := NewRenderer(DefaultPolicy(), NewRegistry(2))
		for _, g := range geoms {
			got := r.Render(el(g, construction))
			assert.True(t, strings.HasSuffix(got, "\n"), "%s: %q", g.Kind(), got)
			assert.Equal(t, 1, strings.Count(got, "\n"), "%s: %q", g.Kind(), got)
		}
	}
}

func TestRenderConstructionPolicy(t *testing.T) {
	circle := sketch.Circle{Center: vec(0, 0), Radius: 5}
	point := sketch.Point{X: 1, Y: 1}

	t.Run("default uses construction pen", func(t *testing.T) {
		r := NewRenderer(DefaultPolicy(), NewRegistry(2))
		assert.True(t, strings.HasPrefix(r.Render(el(circle, true)), "draw(circle(P0,  5.00), construction);"))
		assert.Equal(t, "dot(P1, construction);\n", r.Render(el(point, true)))
	})

	t.Run("skip", func(t *testing.T) {
		p := DefaultPolicy()
		p.SkipConstruction = true
		r := NewRenderer(p, NewRegistry(2))
		assert.Empty(t, r.Render(el(circle, true)))
		assert.Empty(t, r.Render(el(point, true)))
		assert.NotEmpty(t, r.Render(el(circle, false)))
	})

	t.Run("comment", func(t *testing.T) {
		p := DefaultPolicy()
		p.CommentConstruction = true
		r := NewRenderer(p, NewRegistry(2))
		assert.True(t, strings.HasPrefix(r.Render(el(circle, true)), "// draw(circle(P0,  5.00), construction);"))
		assert.Equal(t, "// dot(P1, construction);\n", r.Render(el(point, true)))
	})

	t.Run("skip wins over comment", func(t *testing.T) {
		p := DefaultPolicy()
		p.SkipConstruction = true
		p.CommentConstruction = true
		r := NewRenderer(p, NewRegistry(2))
		assert.Empty(t, r.Render(el(circle, true)))
	})

	t.Run("skipped elements still register pairs", func(t *testing.T) {
		p := DefaultPolicy()
		p.SkipConstruction = true
		pairs := NewRegistry(2)
		NewRenderer(p, pairs).Render(el(circle, true))
		assert.Equal(t, 1, pairs.Len())
	})
}

func TestRenderCustomIndent(t *testing.T) {
	p := DefaultPolicy()
	p.CommentsIndent = 0
	r := NewRenderer(p, NewRegistry(2))
	assert.Equal(t, "draw(P0--P1); //  1.00\n",
		r.Render(el(sketch.LineSegment{Start: vec(0, 0), End: vec(1, 0)}, false)))
}

// ---------------------------------------------------------------------------
// Document assembly
// ---------------------------------------------------------------------------

func TestAssembleSingleLine(t *testing.T) {
	s := newSketch(el(sketch.LineSegment{Start: vec(0, 0), End: vec(10, 0)}, false))
	doc := Assemble(s, DefaultPolicy(), exportTime)

	assert.Equal(t, "// sketch2asy 2022-12-16\n"+
		"// exported      2022-12-16 - 09:30:05\n"+
		"unitsize(1pt);\n"+
		"pen construction = invisible;\n", doc.Preamble)
	assert.Equal(t, "\n// pairs\n"+
		"pair P0 = ( 0.00,  0.00);\n"+
		"pair P1 = ( 10.00,  0.00);\n", doc.Pairs)
	assert.Empty(t, doc.Dots)
	assert.Equal(t, "\n// draw\n"+
		aligned("draw(P0--P1);", "//  10.00"), doc.Draw)
	assert.Equal(t, doc.Preamble+doc.Pairs+doc.Draw, doc.String())
}

func TestAssembleSkippedConstructionCircle(t *testing.T) {
	p := DefaultPolicy()
	p.SkipConstruction = true
	doc := Assemble(newSketch(el(sketch.Circle{Center: vec(0, 0), Radius: 5}, true)), p, exportTime)
	assert.Equal(t, "\n// draw\n", doc.Draw)
}

func TestAssembleCommentedConstructionCircle(t *testing.T) {
	p := DefaultPolicy()
	p.CommentConstruction = true
	doc := Assemble(newSketch(el(sketch.Circle{Center: vec(0, 0), Radius: 5}, true)), p, exportTime)

	lines := strings.Split(strings.TrimPrefix(doc.Draw, "\n// draw\n"), "\n")
	require.Len(t, lines, 2, "one statement plus the trailing empty split")
	assert.True(t, strings.HasPrefix(lines[0], "// "))
	assert.Contains(t, lines[0], "P0")
	assert.Contains(t, lines[0], "5.00")
}

func TestAssembleSharedEndpoint(t *testing.T) {
	s := newSketch(
		el(sketch.LineSegment{Start: vec(0, 0), End: vec(5, 0)}, false),
		el(sketch.LineSegment{Start: vec(0, 5), End: vec(0, 0)}, false),
	)
	doc := Assemble(s, DefaultPolicy(), exportTime)

	assert.Equal(t, 1, strings.Count(doc.Pairs, "pair P0 = ( 0.00,  0.00);"))
	assert.Equal(t, 1, strings.Count(doc.Pairs, "( 0.00,  0.00)"))
	assert.Contains(t, doc.Draw, "draw(P0--P1);")
	assert.Contains(t, doc.Draw, "draw(P2--P0);")
}

func TestAssembleUnsupportedDoesNotStopProcessing(t *testing.T) {
	s := newSketch(
		el(sketch.Unknown{Name: "ArcOfParabola"}, false),
		el(sketch.Point{X: 1, Y: 2}, false),
	)
	doc := Assemble(s, DefaultPolicy(), exportTime)
	assert.Equal(t, "\n// draw\n// ArcOfParabola is not implemented yet.\ndot(P0);\n", doc.Draw)
}

func TestAssemblePreservesElementOrder(t *testing.T) {
	s := newSketch(
		el(sketch.Point{X: 3}, false),
		el(sketch.Point{X: 1}, false),
		el(sketch.Point{X: 2}, false),
	)
	doc := Assemble(s, DefaultPolicy(), exportTime)
	assert.Equal(t, "\n// draw\ndot(P0);\ndot(P1);\ndot(P2);\n", doc.Draw)
	assert.Equal(t, "\n// pairs\n"+
		"pair P0 = ( 3.00,  0.00);\n"+
		"pair P1 = ( 1.00,  0.00);\n"+
		"pair P2 = ( 2.00,  0.00);\n", doc.Pairs)
}

func TestAssembleDotLabelsAndTexPreamble(t *testing.T) {
	p := DefaultPolicy()
	p.PrintDotLabels = true
	p.TexPreamble = `\usepackage{amsmath}`
	doc := Assemble(newSketch(el(sketch.Point{X: 1, Y: 1}, false)), p, exportTime)

	assert.Contains(t, doc.Preamble, `texpreamble("\usepackage{amsmath}");`+"\n")
	assert.Equal(t, "\n// show dot at each pair\n/*\ndot(\"$P0$\", P0);\n*/\n", doc.Dots)
	assert.Equal(t, []string{doc.Preamble, doc.Pairs, doc.Dots, doc.Draw}, doc.Sections())
}

func TestAssemblerStages(t *testing.T) {
	a := NewAssembler(DefaultPolicy(), exportTime)
	assert.Equal(t, StageIdle, a.Stage())

	require.NoError(t, a.Add(el(sketch.Point{}, false)))
	assert.Equal(t, StageCollecting, a.Stage())

	first := a.Finish()
	assert.Equal(t, StageDone, a.Stage())
	assert.ErrorIs(t, a.Add(el(sketch.Point{}, false)), ErrSealed)
	assert.Equal(t, first, a.Finish())
	assert.Equal(t, "done", StageDone.String())
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

type recordingSink struct {
	messages []string
	errors   []string
}

func (s *recordingSink) Message(text string) { s.messages = append(s.messages, text) }
func (s *recordingSink) Error(text string)   { s.errors = append(s.errors, text) }

func TestExportNoActiveSketch(t *testing.T) {
	d := sketch.NewDocument()
	d.AddSketch(newSketch())
	sink := &recordingSink{}

	err := Export(d, DefaultPolicy(), sink, exportTime)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoActiveSketch))
	assert.NotEmpty(t, errors.GetAllHints(err))
	assert.Equal(t, []string{NoActiveSketchMessage}, sink.errors)
	assert.Empty(t, sink.messages)
}

func TestExportActiveSketch(t *testing.T) {
	d := sketch.NewDocument()
	d.AddSketch(newSketch(el(sketch.LineSegment{Start: vec(0, 0), End: vec(10, 0)}, false)))
	require.NoError(t, d.Edit("test"))

	var out, errOut bytes.Buffer
	require.NoError(t, Export(d, DefaultPolicy(), WriterSink{Out: &out, Err: &errOut}, exportTime))

	want := Assemble(d.Sketches[0], DefaultPolicy(), exportTime).String()
	assert.Equal(t, want, out.String())
	assert.Empty(t, errOut.String())
}
