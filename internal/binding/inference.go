package binding

import "github.com/state-scan/state-scan/internal/model"

// ResolveInference implements spec.md §4.3 source 5: for every
// interface/abstract class in the project graph with exactly one concrete
// subtype in the graph, synthesise BindingKey(I) -> C. already reports
// whether a higher-precedence source has already resolved a candidate
// key, so inference never overwrites an explicit binding. Multi-impl
// interfaces are not guessed; they are recorded in the returned ambiguous
// map for the aggregator's AmbiguousBinding finding (spec.md §7).
func ResolveInference(g *model.ClassGraph, already func(model.BindingKey) bool) (bindings []Binding, ambiguous map[string][]string) {
	ambiguous = make(map[string][]string)
	for _, c := range g.All() {
		if !c.IsInterface && !c.IsAbstract {
			continue
		}
		concretes := concreteSubtypes(g, c.FQN)
		key := model.BindingKey{TypeFQN: c.FQN}
		switch {
		case len(concretes) == 1:
			if !already(key) {
				bindings = append(bindings, Binding{Key: key, ConcreteFQN: concretes[0]})
			}
		case len(concretes) > 1:
			ambiguous[c.FQN] = concretes
		}
	}
	return bindings, ambiguous
}

// concreteSubtypes returns the sorted-by-discovery list of non-abstract,
// non-interface subtypes of fqn.
func concreteSubtypes(g *model.ClassGraph, fqn string) []string {
	var out []string
	for _, sub := range g.AllSubtypes(fqn) {
		shape, ok := g.Lookup(sub)
		if !ok || shape.IsInterface || shape.IsAbstract {
			continue
		}
		out = append(out, sub)
	}
	return out
}
