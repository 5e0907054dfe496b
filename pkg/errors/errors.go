// Package errors provides error handling for sketch2asy.
//
// It re-exports github.com/cockroachdb/errors so callers get stack traces,
// wrapping and user-facing hints from one import:
//
//	if err := eng.Evaluate(src); err != nil {
//	    return errors.Wrap(err, "evaluating sketch")
//	}
//	return errors.WithHint(err, "open a sketch with (edit \"name\")")
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New       = crdb.New
	Newf      = crdb.Newf
	Wrap      = crdb.Wrap
	Wrapf     = crdb.Wrapf
	WithStack = crdb.WithStack
)

// User-facing messages
var (
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetail   = crdb.WithDetail
	WithDetailf  = crdb.WithDetailf
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Inspection
var (
	Is        = crdb.Is
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Sentinel errors. Wrap them to add context; test with errors.Is.
var (
	// ErrNoActiveSketch means no sketch is open for editing.
	ErrNoActiveSketch = New("no sketch in edit mode")

	// ErrInvalidSketch means structural validation found blocking errors.
	ErrInvalidSketch = New("invalid sketch")

	// ErrNotFound means a named sketch does not exist.
	ErrNotFound = New("not found")
)
