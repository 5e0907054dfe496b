// Package asy exports a sketch as Asymptote source.
//
// Rendering happens in two passes: every element is rendered first, in
// sketch order, which fills the pair registry; the pair declarations are
// written afterwards from the registry's final contents.
package asy

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chazu/sketch2asy/pkg/errors"
	"github.com/chazu/sketch2asy/pkg/logger"
	"github.com/chazu/sketch2asy/pkg/sketch"
)

// Tool is the name written in the preamble.
const Tool = "sketch2asy"

// NoActiveSketchMessage is reported when nothing is in edit mode.
const NoActiveSketchMessage = "A sketch needs to be in edit mode"

const timestampLayout = "2006-01-02 - 15:04:05"

// Document is an assembled export, split into its sections.
type Document struct {
	Preamble string
	Pairs    string
	Dots     string // empty unless the policy prints dot labels
	Draw     string
}

// String joins the sections in output order.
func (d Document) String() string {
	return d.Preamble + d.Pairs + d.Dots + d.Draw
}

// Sections returns the non-empty sections in output order.
func (d Document) Sections() []string {
	var out []string
	for _, s := range []string{d.Preamble, d.Pairs, d.Dots, d.Draw} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Stage is the assembler's position in an export run.
type Stage int

const (
	StageIdle       Stage = iota // nothing rendered yet
	StageCollecting              // rendering elements
	StageDeclaring               // writing pair declarations
	StageDone                    // document complete
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageCollecting:
		return "collecting"
	case StageDeclaring:
		return "declaring"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// ErrSealed is returned when elements are added after Finish.
var ErrSealed = errors.New("assembler already declared its pairs")

// Assembler collects rendered elements and then declares their pairs.
type Assembler struct {
	policy   Policy
	at       time.Time
	pairs    *Registry
	renderer *Renderer
	stage    Stage
	draw     strings.Builder
	count    int
}

// NewAssembler starts an export run. at is the timestamp written to the
// preamble.
func NewAssembler(p Policy, at time.Time) *Assembler {
	pairs := NewRegistry(p.Accuracy)
	return &Assembler{
		policy:   p,
		at:       at,
		pairs:    pairs,
		renderer: NewRenderer(p, pairs),
	}
}

// Stage reports where the run is.
func (a *Assembler) Stage() Stage {
	return a.stage
}

// Add renders one element and appends it to the draw section.
func (a *Assembler) Add(e sketch.Element) error {
	if a.stage > StageCollecting {
		return ErrSealed
	}
	a.stage = StageCollecting
	a.draw.WriteString(a.renderer.Render(e))
	a.count++
	return nil
}

// Finish declares every registered pair and returns the document. Later
// calls return the same document.
func (a *Assembler) Finish() Document {
	a.stage = StageDeclaring

	var pairs, dots strings.Builder
	pairs.WriteString("\n// pairs\n")
	for _, e := range a.pairs.Entries() {
		fmt.Fprintf(&pairs, "pair %s = %s;\n", e.Symbol, e.Pair)
		fmt.Fprintf(&dots, "dot(\"$%s$\", %s);\n", e.Symbol, e.Symbol)
	}

	doc := Document{
		Preamble: a.preamble(),
		Pairs:    pairs.String(),
		Draw:     "\n// draw\n" + a.draw.String(),
	}
	if a.policy.PrintDotLabels {
		doc.Dots = "\n// show dot at each pair\n/*\n" + dots.String() + "*/\n"
	}

	a.stage = StageDone
	return doc
}

func (a *Assembler) preamble() string {
	var b strings.Builder
	fmt.Fprintf(&b, "// %s %s\n", Tool, a.policy.Version)
	fmt.Fprintf(&b, "// exported      %s\n", a.at.Format(timestampLayout))
	fmt.Fprintf(&b, "unitsize(%s);\n", a.policy.UnitSize)
	if a.policy.TexPreamble != "" {
		// Asymptote double-quoted strings keep backslashes; only quotes need escaping.
		fmt.Fprintf(&b, "texpreamble(\"%s\");\n", strings.ReplaceAll(a.policy.TexPreamble, `"`, `\"`))
	}
	fmt.Fprintf(&b, "pen %s = %s;\n", a.policy.ConstructionPenName, a.policy.ConstructionPenColor)
	return b.String()
}

// Assemble renders a whole sketch in element order.
func Assemble(s *sketch.Sketch, p Policy, at time.Time) Document {
	a := NewAssembler(p, at)
	for _, e := range s.Elements {
		// Add only fails once sealed, which cannot happen here.
		_ = a.Add(e)
	}
	doc := a.Finish()

	logger.Logger.Debugw("Assembled sketch",
		"sketch", s.Name,
		"elements", a.count,
		"pairs", a.pairs.Len())
	return doc
}

// Sink receives export output: script text on Message, user-facing
// failures on Error.
type Sink interface {
	Message(text string)
	Error(text string)
}

// WriterSink is a Sink over two writers.
type WriterSink struct {
	Out io.Writer
	Err io.Writer
}

// Message writes text to Out.
func (w WriterSink) Message(text string) {
	io.WriteString(w.Out, text)
}

// Error writes text to Err followed by a newline.
func (w WriterSink) Error(text string) {
	io.WriteString(w.Err, text+"\n")
}

// Export writes the document's active sketch to sink. With no sketch in
// edit mode it reports NoActiveSketchMessage on the error channel, writes
// nothing else and returns an error wrapping ErrNoActiveSketch.
func Export(doc *sketch.Document, p Policy, sink Sink, at time.Time) error {
	s, err := doc.Active()
	if err != nil {
		sink.Error(NoActiveSketchMessage)
		return errors.WithHint(err, `open a sketch with (edit "name") or pass --sketch`)
	}

	for _, section := range Assemble(s, p, at).Sections() {
		sink.Message(section)
	}
	return nil
}
