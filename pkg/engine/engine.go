// Package engine evaluates sketch description source. It wraps zygomys in
// a sandboxed environment with sketch builtins installed and produces a
// sketch.Document.
package engine

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/sketch2asy/pkg/errors"
	"github.com/chazu/sketch2asy/pkg/logger"
	"github.com/chazu/sketch2asy/pkg/sketch"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError is a non-fatal error in user source, such as a parse error or
// a builtin rejecting its arguments.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return "line " + strconv.Itoa(e.Line) + ": " + e.Message
	}
	return e.Message
}

// Engine evaluates sketch source. It is safe for concurrent use; every
// call to Evaluate gets a fresh sandbox, so results are deterministic.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs source and returns the document it describes.
//
// Return semantics:
//   - On success: document + nil errors + nil error
//   - On parse/eval failure: nil document + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): nil + nil + error
func (e *Engine) Evaluate(source string) (*sketch.Document, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: errors.Newf("panic during evaluation: %v", r)}
			}
		}()

		doc, evalErrs, err := e.evaluate(source)
		ch <- evalResult{doc: doc, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

func (e *Engine) evaluate(source string) (*sketch.Document, []EvalError, error) {
	doc := sketch.NewDocument()
	if strings.TrimSpace(source) == "" {
		return doc, nil, nil
	}

	// The sandbox has no filesystem or system call access.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, doc)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	logger.Logger.Debugw("Evaluated sketch source",
		"sketches", len(doc.Sketches),
		"in_edit", doc.InEdit)
	return doc, nil, nil
}

// linePattern matches zygomys messages of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches "line N: ...".
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalErrors, pulling out
// the line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
