package asy

import (
	"strconv"

	"github.com/chazu/sketch2asy/pkg/sketch"
)

// Entry is one declared pair: its formatted coordinates and symbol.
type Entry struct {
	Pair   string
	Symbol string
}

// Registry deduplicates coordinates into symbolic pairs P0, P1, ...
// Two coordinates are the same pair when their formatted text is equal,
// so points closer than the output precision collapse into one symbol.
// A Registry lives for one export run and only grows.
type Registry struct {
	accuracy int
	symbols  map[string]string
	entries  []Entry
}

// NewRegistry creates an empty registry formatting at the given accuracy.
func NewRegistry(accuracy int) *Registry {
	return &Registry{
		accuracy: accuracy,
		symbols:  make(map[string]string),
	}
}

// Raw formats c without registering it.
func (r *Registry) Raw(c sketch.Coord) string {
	x, y := sketch.XY(c)
	return FormatPair(x, y, r.accuracy)
}

// Resolve returns the symbol for c, assigning the next one if its
// formatted text has not been seen yet.
func (r *Registry) Resolve(c sketch.Coord) string {
	p := r.Raw(c)
	if sym, ok := r.symbols[p]; ok {
		return sym
	}
	sym := "P" + strconv.Itoa(len(r.entries))
	r.symbols[p] = sym
	r.entries = append(r.entries, Entry{Pair: p, Symbol: sym})
	return sym
}

// Entries returns the registered pairs in first-resolution order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered pairs.
func (r *Registry) Len() int {
	return len(r.entries)
}
