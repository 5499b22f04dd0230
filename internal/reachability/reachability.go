// Package reachability computes, for every project-local class, the
// shortest path (if any) to a type belonging to each configured leaf
// category: external-state, cache, thread-local, file-state, resilience,
// service-client, grpc, and metric (spec.md §4.5, SPEC_FULL.md §4.7's
// metric addition). It is the sole consumer of internal/binding's
// BindingTable for turning an interface/abstract invocation target into a
// concrete class during traversal.
package reachability

import (
	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/descriptor"
	"github.com/state-scan/state-scan/internal/model"
)

// Category names one of the leaf categories the engine searches for.
type Category string

const (
	CategoryExternalState Category = "external-state"
	CategoryCache         Category = "cache"
	CategoryThreadLocal   Category = "thread-local"
	CategoryFileState     Category = "file-state"
	CategoryResilience    Category = "resilience"
	CategoryServiceClient Category = "service-client"
	CategoryGRPC          Category = "grpc"
	CategoryMetric        Category = "metric"
)

// AllCategories lists every leaf category the engine searches per root.
var AllCategories = []Category{
	CategoryExternalState,
	CategoryCache,
	CategoryThreadLocal,
	CategoryFileState,
	CategoryResilience,
	CategoryServiceClient,
	CategoryGRPC,
	CategoryMetric,
}

// DefaultMaxDepth is spec.md §4.5's default BFS bound.
const DefaultMaxDepth = 6

// Options configures Compute.
type Options struct {
	// MaxDepth bounds path length. Zero selects DefaultMaxDepth.
	MaxDepth int
}

// PathResult is the shortest path found from one root to one leaf
// category, plus any REST/RPC handler endpoints attributed to the root.
type PathResult struct {
	Path              []model.PathStep
	AffectedEndpoints []string
}

// Results is Compute's output: for every project-local root that reached
// at least one leaf category, the first (shortest) path per category.
type Results struct {
	paths map[string]map[Category]PathResult
}

// Path returns the recorded path from root to category, if any.
func (r *Results) Path(root string, category Category) (PathResult, bool) {
	byCategory, ok := r.paths[root]
	if !ok {
		return PathResult{}, false
	}
	pr, ok := byCategory[category]
	return pr, ok
}

// Roots returns every root FQN that reached at least one leaf category.
func (r *Results) Roots() []string {
	out := make([]string, 0, len(r.paths))
	for root := range r.paths {
		out = append(out, root)
	}
	return out
}

// Categories returns every leaf category reached from root.
func (r *Results) Categories(root string) map[Category]PathResult {
	return r.paths[root]
}

// Compute runs one bounded BFS per project-local class (spec.md §4.5
// "single-source BFS bounded by maxDepth... returns the first path found
// for each (root, leaf) pair").
func Compute(g *model.ClassGraph, cat *catalogue.Catalogue, table *binding.BindingTable, opts Options) *Results {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	results := &Results{paths: make(map[string]map[Category]PathResult)}
	for _, root := range g.ProjectLocal() {
		found := bfsFromRoot(g, cat, table, root.FQN, maxDepth)
		if len(found) == 0 {
			continue
		}
		endpoints := endpointsFor(cat, root)
		for category, pr := range found {
			pr.AffectedEndpoints = endpoints
			found[category] = pr
		}
		results.paths[root.FQN] = found
	}
	return results
}

type frontierNode struct {
	fqn  string
	path []model.PathStep
}

// bfsFromRoot explores outward from one root class, classifying every
// newly-visited node against every leaf category. Because BFS visits
// nodes in non-decreasing distance order, the first time a category is
// satisfied is necessarily via the shortest path.
func bfsFromRoot(g *model.ClassGraph, cat *catalogue.Catalogue, table *binding.BindingTable, rootFQN string, maxDepth int) map[Category]PathResult {
	found := make(map[Category]PathResult)
	visited := map[string]bool{rootFQN: true}
	queue := []frontierNode{{fqn: rootFQN, path: []model.PathStep{{ClassFQN: rootFQN}}}}

	for depth := 0; len(queue) > 0 && depth <= maxDepth; depth++ {
		var nextQueue []frontierNode
		for _, node := range queue {
			recordCategories(cat, node, found)
			if len(found) == len(AllCategories) {
				return found
			}
			if depth == maxDepth {
				continue
			}
			shape, ok := g.Lookup(node.fqn)
			if !ok {
				continue
			}
			for _, e := range outgoingEdges(g, table, shape) {
				if visited[e.target] {
					continue
				}
				visited[e.target] = true
				step := model.PathStep{ClassFQN: e.target, Member: e.member, Edge: e.kind, Inferred: e.inferred}
				newPath := append(append([]model.PathStep{}, node.path...), step)
				nextQueue = append(nextQueue, frontierNode{fqn: e.target, path: newPath})
			}
		}
		queue = nextQueue
	}
	return found
}

func recordCategories(cat *catalogue.Catalogue, node frontierNode, found map[Category]PathResult) {
	for _, category := range AllCategories {
		if _, already := found[category]; already {
			continue
		}
		if matchesCategory(cat, category, node.fqn) {
			found[category] = PathResult{Path: append([]model.PathStep{}, node.path...)}
		}
	}
}

func matchesCategory(cat *catalogue.Catalogue, category Category, fqn string) bool {
	if cat.IsSafeType(fqn) {
		return false
	}
	switch category {
	case CategoryExternalState:
		return cat.ExternalStateTypes.Matches(fqn)
	case CategoryCache:
		return cat.CacheTypes.Matches(fqn)
	case CategoryThreadLocal:
		return cat.ThreadLocalTypes.Matches(fqn)
	case CategoryFileState:
		return cat.FileStateTypes.Matches(fqn)
	case CategoryResilience:
		return cat.ResilienceTypes.Matches(fqn)
	case CategoryServiceClient:
		return cat.ServiceClientTypes.Matches(fqn)
	case CategoryGRPC:
		return cat.GRPCTypes.Matches(fqn)
	case CategoryMetric:
		return cat.MetricTypes.Matches(fqn)
	default:
		return false
	}
}

type edge struct {
	target   string
	member   string
	kind     model.EdgeKind
	inferred bool
}

// outgoingEdges builds every edge leaving c (spec.md §4.5's four kinds).
// FIELD edges are restricted to field types already known to the graph,
// matching the spec's literal wording; the other three kinds are
// unconditional — their targets may be leaf nodes with no ClassShape of
// their own, which is exactly how most external-state/cache/client types
// are reached (they are rarely project-local classes).
func outgoingEdges(g *model.ClassGraph, table *binding.BindingTable, c *model.ClassShape) []edge {
	var out []edge

	if c.Superclass != "" {
		out = append(out, edge{target: c.Superclass, kind: model.EdgeInheritance})
	}
	for _, iface := range c.Interfaces {
		out = append(out, edge{target: iface, kind: model.EdgeInheritance})
	}

	for _, f := range c.Fields {
		target := descriptor.FQN(descriptor.ElementType(f.Descriptor))
		if target == "" {
			continue
		}
		if _, ok := g.Lookup(target); !ok {
			continue
		}
		out = append(out, edge{target: target, member: f.Name, kind: model.EdgeField})
	}

	for _, m := range c.Methods {
		for _, inv := range m.Invocations {
			target := resolveInvocationTarget(g, table, inv.Owner)
			out = append(out, edge{target: target, member: m.Name, kind: model.EdgeInvocation})
		}
		if len(m.Parameters) == 0 {
			continue
		}
		for _, key := range binding.ExpandParameters(g, m) {
			if b, ok := table.Resolve(key); ok {
				out = append(out, edge{
					target:   b.ConcreteFQN,
					member:   m.Name,
					kind:     model.EdgeDIBinding,
					inferred: b.Origin == binding.OriginInferred,
				})
			}
		}
	}
	return out
}

// resolveInvocationTarget expands an interface/abstract invocation owner
// to its resolved concrete type when the binding table has one; otherwise
// it returns the owner unchanged (spec.md §4.5 INVOCATION edge rule).
func resolveInvocationTarget(g *model.ClassGraph, table *binding.BindingTable, owner string) string {
	shape, ok := g.Lookup(owner)
	if !ok {
		return owner
	}
	if shape.IsInterface || shape.IsAbstract {
		if b, ok := table.Resolve(model.BindingKey{TypeFQN: owner}); ok {
			return b.ConcreteFQN
		}
	}
	return owner
}

// endpointsFor implements spec.md §4.5's endpoint attribution: when root
// carries a recognised endpoint annotation at class or method level, every
// public method contributes "<root>#<method>".
func endpointsFor(cat *catalogue.Catalogue, root *model.ClassShape) []string {
	classIsEndpoint := hasAnyAnnotation(root.Annotations, cat.EndpointAnnotations)
	var out []string
	for _, m := range root.Methods {
		if !m.IsPublic {
			continue
		}
		if classIsEndpoint || hasAnyAnnotation(m.Annotations, cat.EndpointAnnotations) {
			out = append(out, root.FQN+"#"+m.Name)
		}
	}
	return out
}

func hasAnyAnnotation(annotations []string, set catalogue.AnnotationSet) bool {
	for _, a := range annotations {
		if set.Has(a) {
			return true
		}
	}
	return false
}
