package engine

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/sketch2asy/pkg/errors"
	"github.com/chazu/sketch2asy/pkg/sketch"
)

func TestEvaluateEmptySource(t *testing.T) {
	for _, src := range []string{"", "   \n\t  \n  "} {
		doc, evalErrs, err := NewEngine().Evaluate(src)
		if err != nil {
			t.Fatalf("unexpected fatal error: %v", err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("unexpected eval errors: %v", evalErrs)
		}
		if doc == nil {
			t.Fatal("expected non-nil document")
		}
		if len(doc.Sketches) != 0 {
			t.Errorf("expected empty document, got %d sketches", len(doc.Sketches))
		}
	}
}

func TestEvaluatePlainExpression(t *testing.T) {
	doc, evalErrs, err := NewEngine().Evaluate("(+ 1 2)\n(def x 10)\n(* x 2)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if len(doc.Sketches) != 0 {
		t.Errorf("expected no sketches, got %d", len(doc.Sketches))
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	doc, evalErrs, err := NewEngine().Evaluate("(sketch \"s\" (line")
	if err != nil {
		t.Fatalf("syntax errors should be eval errors, not fatal: %v", err)
	}
	if doc != nil {
		t.Error("expected nil document on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors for unbalanced parens")
	}
	if evalErrs[0].Message == "" {
		t.Error("expected a non-empty error message")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	_, evalErrs, err := NewEngine().Evaluate("(sketch \"s\" (polygon 1 2 3))")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors for undefined function")
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	var err error = EvalError{Line: 3, Message: "bad thing"}
	if got := err.Error(); got != "line 3: bad thing" {
		t.Errorf("Error() = %q", got)
	}
	err = EvalError{Message: "no line"}
	if got := err.Error(); got != "no line" {
		t.Errorf("Error() = %q", got)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()
	src := `(sketch "s" (line (vec 0 0) (vec 1 0)) (circle (vec 0 0) 2))`
	for i := 0; i < 5; i++ {
		doc, evalErrs, err := eng.Evaluate(src)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("iteration %d: err=%v evalErrs=%v", i, err, evalErrs)
		}
		if len(doc.Sketches) != 1 || doc.Sketches[0].Len() != 2 {
			t.Fatalf("iteration %d: unexpected document %+v", i, doc)
		}
	}
}

func TestEvaluateTimeout(t *testing.T) {
	// Drive waitWithTimeout with a channel that never delivers.
	var mu sync.Mutex
	var gen uint64 = 1
	ch := make(chan evalResult)

	done := make(chan struct{})
	var resultErr error
	go func() {
		defer close(done)
		_, _, resultErr = waitWithTimeout(ch, 1, &mu, &gen)
	}()

	select {
	case <-done:
		if !errors.Is(resultErr, ErrTimeout) {
			t.Fatalf("expected ErrTimeout, got %v", resultErr)
		}
		if !strings.Contains(resultErr.Error(), "timed out") {
			t.Errorf("expected timeout error message, got: %v", resultErr)
		}
	case <-time.After(EvalTimeout + 2*time.Second):
		t.Fatal("test itself timed out waiting for evaluation timeout")
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2)

	ch := make(chan evalResult, 1)
	ch <- evalResult{}

	_, _, err := waitWithTimeout(ch, 1, &mu, &gen)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line format", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"no line info", "some generic error", 0, "some generic error"},
		{"line format lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"short line format", "line 7: bad arity", 7, "bad arity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errors.New(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

func TestExampleSourceEvaluates(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("..", "..", "examples", "bracket.zy"))
	if err != nil {
		t.Fatalf("reading example: %v", err)
	}
	doc, evalErrs, err := NewEngine().Evaluate(string(src))
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("err=%v evalErrs=%v", err, evalErrs)
	}
	if len(doc.Sketches) != 2 {
		t.Fatalf("expected 2 sketches, got %d", len(doc.Sketches))
	}
	active, err := doc.Active()
	if err != nil {
		t.Fatalf("Active() failed: %v", err)
	}
	if active.Name != "bracket" || active.Len() != 11 {
		t.Errorf("active = %q with %d elements, want bracket with 11", active.Name, active.Len())
	}
	if res := sketch.Validate(doc); !res.OK() {
		t.Errorf("example has validation errors: %v", res.Errors)
	}
}
