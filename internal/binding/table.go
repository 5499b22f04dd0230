// Package binding discovers dependency-injection bindings inside the
// decoded class graph and materialises them into a BindingTable: the
// Reachability Engine consults this table to turn an interface/abstract
// typed edge into a concrete one (spec.md §4.3).
package binding

import (
	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/model"
)

// Origin records which of spec.md §4.3's precedence-ordered sources
// produced a Binding. The detector pipeline treats Inferred bindings as
// lower-confidence than every explicit source.
type Origin string

const (
	OriginExplicit Origin = "EXPLICIT"
	OriginInferred Origin = "INFERRED"
)

// Binding is one produced interface/type -> concrete FQN mapping.
type Binding struct {
	Key         model.BindingKey
	ConcreteFQN string
	Singleton   bool
	Origin      Origin
}

// BindingTable is the merged, read-only-after-build output of every
// binding source (spec.md §4.3, §5 "immutable after barrier").
type BindingTable struct {
	bindings  map[model.BindingKey]Binding
	Ambiguous map[string][]string
}

// Build runs every binding source in spec.md §4.3's precedence order and
// merges the results: explicit configure-style bindings and module
// install chains first, then provider methods, then CDI-style producers,
// then single-implementation inference last. Earlier sources win on key
// collision — a later source never overwrites an already-resolved key.
func Build(g *model.ClassGraph, cat *catalogue.Catalogue) *BindingTable {
	t := &BindingTable{
		bindings:  make(map[model.BindingKey]Binding),
		Ambiguous: make(map[string][]string),
	}

	for _, b := range ResolveModules(g, cat) {
		b.Origin = OriginExplicit
		t.add(b)
	}
	for _, b := range ResolveProviders(g) {
		b.Origin = OriginExplicit
		t.add(b)
	}
	for _, b := range ResolveProduces(g) {
		b.Origin = OriginExplicit
		t.add(b)
	}
	inferred, ambiguous := ResolveInference(g, t.Has)
	for _, b := range inferred {
		b.Origin = OriginInferred
		t.add(b)
	}
	for iface, candidates := range ambiguous {
		t.Ambiguous[iface] = candidates
	}
	return t
}

func (t *BindingTable) add(b Binding) {
	if _, exists := t.bindings[b.Key]; exists {
		return
	}
	t.bindings[b.Key] = b
}

// Has reports whether key already has a resolved binding.
func (t *BindingTable) Has(key model.BindingKey) bool {
	_, ok := t.bindings[key]
	return ok
}

// Resolve returns the concrete binding for key, if any.
func (t *BindingTable) Resolve(key model.BindingKey) (Binding, bool) {
	b, ok := t.bindings[key]
	return b, ok
}

// Len reports the number of distinct resolved binding keys.
func (t *BindingTable) Len() int { return len(t.bindings) }

// All returns every resolved binding, in no particular order. Used by
// detectors that need to search bindings by concrete type rather than by
// key (e.g. the Singleton Detector looking up whether a class was itself
// bound as an eager singleton).
func (t *BindingTable) All() []Binding {
	out := make([]Binding, 0, len(t.bindings))
	for _, b := range t.bindings {
		out = append(out, b)
	}
	return out
}
