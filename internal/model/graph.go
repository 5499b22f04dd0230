package model

// ClassGraph is the indexed container built by the Graph Builder. Once the
// index phase (see internal/graph) has run, a ClassGraph is treated as
// immutable: no component past that barrier mutates it.
type ClassGraph struct {
	classes  map[string]*ClassShape   // FQN -> ClassShape
	subtypes map[string]map[string]bool // FQN -> direct subtype FQNs
}

// NewClassGraph returns an empty graph ready for inserts.
func NewClassGraph() *ClassGraph {
	return &ClassGraph{
		classes:  make(map[string]*ClassShape),
		subtypes: make(map[string]map[string]bool),
	}
}

// Insert adds a class under first-insert-wins semantics: if fqn is already
// present, the call is a no-op and reports false. Callers enumerate project
// directories before dependency archives so project code always shadows a
// coincidentally identical dependency class (spec.md §4.2 step 3).
func (g *ClassGraph) Insert(shape *ClassShape) (inserted bool) {
	if _, exists := g.classes[shape.FQN]; exists {
		return false
	}
	g.classes[shape.FQN] = shape
	return true
}

// Lookup returns the ClassShape for fqn, or (nil, false) if the graph does
// not contain it — the graph is not required to contain the JDK itself.
func (g *ClassGraph) Lookup(fqn string) (*ClassShape, bool) {
	c, ok := g.classes[fqn]
	return c, ok
}

// Len returns the number of classes in the graph.
func (g *ClassGraph) Len() int { return len(g.classes) }

// All returns every class in the graph. The returned slice is a fresh copy;
// callers may not mutate the graph through it.
func (g *ClassGraph) All() []*ClassShape {
	out := make([]*ClassShape, 0, len(g.classes))
	for _, c := range g.classes {
		out = append(out, c)
	}
	return out
}

// ProjectLocal returns every project-local class in the graph.
func (g *ClassGraph) ProjectLocal() []*ClassShape {
	out := make([]*ClassShape, 0)
	for _, c := range g.classes {
		if c.IsProjectLocal {
			out = append(out, c)
		}
	}
	return out
}

// BuildSubtypeIndex is the single-threaded index phase (spec.md §4.2 step
// 4 / §5 "visible barrier"): for every class present, add a reverse edge
// from its superclass and each of its interfaces. Must run after all
// inserts complete and before any subtype query.
func (g *ClassGraph) BuildSubtypeIndex() {
	g.subtypes = make(map[string]map[string]bool, len(g.classes))
	for _, c := range g.classes {
		if c.Superclass != "" {
			g.addSubtypeEdge(c.Superclass, c.FQN)
		}
		for _, iface := range c.Interfaces {
			g.addSubtypeEdge(iface, c.FQN)
		}
	}
}

func (g *ClassGraph) addSubtypeEdge(parent, child string) {
	set, ok := g.subtypes[parent]
	if !ok {
		set = make(map[string]bool)
		g.subtypes[parent] = set
	}
	set[child] = true
}

// DirectSubtypes returns the FQNs that directly extend/implement fqn.
func (g *ClassGraph) DirectSubtypes(fqn string) []string {
	set, ok := g.subtypes[fqn]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	return out
}

// AllSubtypes returns the transitive closure of DirectSubtypes(fqn). fqn
// itself is never included, even in a cyclic adversarial graph — cycles
// are cut by the visited set.
func (g *ClassGraph) AllSubtypes(fqn string) []string {
	visited := map[string]bool{fqn: true}
	var out []string
	queue := g.DirectSubtypes(fqn)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if visited[next] {
			continue
		}
		visited[next] = true
		out = append(out, next)
		queue = append(queue, g.DirectSubtypes(next)...)
	}
	return out
}

// IsSubtypeOrSelf reports whether candidate is fqn itself or one of its
// transitive subtypes — the reflexive-subtype check used by reachability
// leaf matching (spec.md §4.5, testable property #5).
func (g *ClassGraph) IsSubtypeOrSelf(candidate, fqn string) bool {
	if candidate == fqn {
		return true
	}
	for _, s := range g.AllSubtypes(fqn) {
		if s == candidate {
			return true
		}
	}
	return false
}
