package binding

import (
	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/model"
)

// singletonMarkers are class constants that mark a configure-style binding
// as SINGLETON (spec.md §4.3 step 1: "asEagerSingleton/in(Singleton.class)
// marks the binding as SINGLETON"). These are excluded from the bind/to
// pairing walk below since they are scope markers, not binding operands.
var singletonMarkers = map[string]bool{
	"com.google.inject.Singleton": true,
	"javax.inject.Singleton":      true,
	"jakarta.inject.Singleton":    true,
}

// ResolveModules implements spec.md §4.3 sources 1 and 4: explicit
// configure-style bindings on AbstractModule-like classes, including
// transitive install(new OtherModule()) chains and superclass
// super.configure() inheritance.
func ResolveModules(g *model.ClassGraph, cat *catalogue.Catalogue) []Binding {
	var out []Binding
	for _, c := range g.All() {
		if !isModuleClass(g, cat, c) {
			continue
		}
		for _, m := range findConfigureMethods(c) {
			out = append(out, bindingsFromConfigure(g, c, m, map[string]bool{c.FQN: true})...)
		}
	}
	return dedupeBindings(out)
}

// dedupeBindings collapses identical (key, concrete) pairs that were
// discovered more than once — e.g. a module reached both directly (it is
// itself scanned as a project class) and transitively through another
// module's install() chain.
func dedupeBindings(bindings []Binding) []Binding {
	seen := make(map[Binding]bool, len(bindings))
	out := make([]Binding, 0, len(bindings))
	for _, b := range bindings {
		if seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}

// isModuleClass walks c's supertype chain (classes only; interfaces are
// checked directly) looking for an AbstractModule-like FQN per the
// catalogue's module-types set.
func isModuleClass(g *model.ClassGraph, cat *catalogue.Catalogue, c *model.ClassShape) bool {
	cur := c
	seen := map[string]bool{}
	for cur != nil && !seen[cur.FQN] {
		seen[cur.FQN] = true
		if cat.IsModuleType(cur.FQN) {
			return true
		}
		for _, iface := range cur.Interfaces {
			if cat.IsModuleType(iface) {
				return true
			}
		}
		if cur.Superclass == "" {
			return false
		}
		if cat.IsModuleType(cur.Superclass) {
			return true
		}
		next, ok := g.Lookup(cur.Superclass)
		if !ok {
			return false
		}
		cur = next
	}
	return false
}

func findConfigureMethods(c *model.ClassShape) []*model.MethodShape {
	var out []*model.MethodShape
	for _, m := range c.Methods {
		if m.Name == "configure" && !m.IsStatic && m.Descriptor == "()V" {
			out = append(out, m)
		}
	}
	return out
}

// bindingsFromConfigure walks one configure method's recorded
// ClassConstants two at a time (bind(X.class)....to(Y.class) leaves a
// consecutive X, Y pair) and follows any install(new OtherModule())
// invocation or super.configure() call it finds among the method's
// recorded invocations. visiting guards against install()/inheritance
// cycles.
func bindingsFromConfigure(g *model.ClassGraph, owner *model.ClassShape, m *model.MethodShape, visiting map[string]bool) []Binding {
	var out []Binding
	singleton := methodMarksSingleton(m)
	pairs := pairableClassConstants(m.ClassConstants)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Binding{
			Key:         model.BindingKey{TypeFQN: pairs[i]},
			ConcreteFQN: pairs[i+1],
			Singleton:   singleton,
		})
	}

	var lastCtorOwner string
	for _, inv := range m.Invocations {
		switch {
		case inv.Name == "<init>":
			lastCtorOwner = inv.Owner
		case inv.Name == "install" && lastCtorOwner != "":
			if !visiting[lastCtorOwner] {
				out = append(out, resolveInstalledModule(g, lastCtorOwner, visiting)...)
			}
			lastCtorOwner = ""
		case inv.Name == "configure" && inv.Owner == owner.Superclass && !visiting[inv.Owner]:
			if super, ok := g.Lookup(owner.Superclass); ok {
				next := cloneVisiting(visiting)
				next[owner.Superclass] = true
				for _, sm := range findConfigureMethods(super) {
					out = append(out, bindingsFromConfigure(g, super, sm, next)...)
				}
			}
		}
	}
	return out
}

func resolveInstalledModule(g *model.ClassGraph, moduleFQN string, visiting map[string]bool) []Binding {
	module, ok := g.Lookup(moduleFQN)
	if !ok {
		return nil
	}
	next := cloneVisiting(visiting)
	next[moduleFQN] = true
	var out []Binding
	for _, m := range findConfigureMethods(module) {
		out = append(out, bindingsFromConfigure(g, module, m, next)...)
	}
	return out
}

func cloneVisiting(v map[string]bool) map[string]bool {
	out := make(map[string]bool, len(v)+1)
	for k := range v {
		out[k] = true
	}
	return out
}

func methodMarksSingleton(m *model.MethodShape) bool {
	for _, inv := range m.Invocations {
		if inv.Name == "asEagerSingleton" {
			return true
		}
	}
	for _, cc := range m.ClassConstants {
		if singletonMarkers[cc] {
			return true
		}
	}
	return false
}

func pairableClassConstants(ccs []string) []string {
	out := make([]string, 0, len(ccs))
	for _, c := range ccs {
		if singletonMarkers[c] {
			continue
		}
		out = append(out, c)
	}
	return out
}
