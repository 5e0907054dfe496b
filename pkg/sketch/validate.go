package sketch

import (
	"fmt"
)

// ValidationSeverity indicates whether a validation finding blocks export
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks export
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Sketch   string             // sketch name (empty if document-level)
	Index    int                // element index, -1 if sketch-level
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	switch {
	case e.Sketch == "":
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	case e.Index < 0:
		return fmt.Sprintf("[%s] sketch %q: %s", e.Severity, e.Sketch, e.Message)
	default:
		return fmt.Sprintf("[%s] sketch %q element %d: %s", e.Severity, e.Sketch, e.Index, e.Message)
	}
}

// ValidationResult splits findings into blocking errors and warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks a document for structural problems. It never mutates
// the document. Unsupported geometry kinds are not findings: the exporter
// degrades them to comments.
func Validate(d *Document) ValidationResult {
	var all []ValidationError
	all = append(all, validateNames(d)...)
	all = append(all, validateEdit(d)...)
	for _, s := range d.Sketches {
		all = append(all, validateSketch(s)...)
	}

	var result ValidationResult
	for _, e := range all {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, e)
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

// validateNames rejects duplicate sketch names, which would make edit
// selection ambiguous.
func validateNames(d *Document) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int)
	for _, s := range d.Sketches {
		seen[s.Name]++
	}
	for _, s := range d.Sketches {
		if n := seen[s.Name]; n > 1 {
			errs = append(errs, ValidationError{
				Index:    -1,
				Message:  fmt.Sprintf("duplicate sketch name %q used %d times", s.Name, n),
				Severity: SeverityError,
			})
			seen[s.Name] = 0
		}
	}
	return errs
}

func validateEdit(d *Document) []ValidationError {
	if d.InEdit == "" || d.Lookup(d.InEdit) != nil {
		return nil
	}
	return []ValidationError{{
		Index:    -1,
		Message:  fmt.Sprintf("sketch %q in edit mode does not exist", d.InEdit),
		Severity: SeverityError,
	}}
}

func validateSketch(s *Sketch) []ValidationError {
	var errs []ValidationError
	if len(s.Elements) == 0 {
		errs = append(errs, ValidationError{
			Sketch:   s.Name,
			Index:    -1,
			Message:  "sketch has no geometry",
			Severity: SeverityWarning,
		})
	}

	for i, e := range s.Elements {
		finding := func(sev ValidationSeverity, format string, args ...any) {
			errs = append(errs, ValidationError{
				Sketch:   s.Name,
				Index:    i,
				Message:  fmt.Sprintf(format, args...),
				Severity: sev,
			})
		}

		switch g := e.Geometry.(type) {
		case nil:
			finding(SeverityError, "element has no geometry")
		case LineSegment:
			if g.Length() == 0 {
				finding(SeverityWarning, "line segment has zero length")
			}
		case Circle:
			if g.Radius <= 0 {
				finding(SeverityError, "circle radius must be positive, got %g", g.Radius)
			}
		case Ellipse:
			errs = append(errs, checkEllipse(s.Name, i, g)...)
		case ArcOfCircle:
			if g.Radius <= 0 {
				finding(SeverityError, "arc radius must be positive, got %g", g.Radius)
			}
			if g.Sweep() == 0 {
				finding(SeverityWarning, "arc has zero sweep")
			}
		case BSplineCurve:
			if err := g.Check(); err != nil {
				finding(SeverityError, "b-spline: %v", err)
			}
		}
	}
	return errs
}

func checkEllipse(name string, i int, g Ellipse) []ValidationError {
	var errs []ValidationError
	if g.MinorRadius <= 0 || g.MajorRadius <= 0 {
		errs = append(errs, ValidationError{
			Sketch:   name,
			Index:    i,
			Message:  fmt.Sprintf("ellipse radii must be positive, got %g and %g", g.MajorRadius, g.MinorRadius),
			Severity: SeverityError,
		})
	}
	if g.MinorRadius > g.MajorRadius {
		errs = append(errs, ValidationError{
			Sketch:   name,
			Index:    i,
			Message:  fmt.Sprintf("ellipse minor radius %g exceeds major radius %g", g.MinorRadius, g.MajorRadius),
			Severity: SeverityError,
		})
	}
	return errs
}
