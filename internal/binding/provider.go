package binding

import (
	"github.com/state-scan/state-scan/internal/descriptor"
	"github.com/state-scan/state-scan/internal/model"
)

// providesAnnotations recognises @Provides-family methods (spec.md §4.3
// source 2). Distinct from the decoder's own injection-annotation set:
// that one gates parameter-metadata retention, this one decides binding
// origin — the two sets overlap in spirit but serve different callers.
var providesAnnotations = map[string]bool{
	"com.google.inject.Provides": true,
}

// producesAnnotations recognises CDI-style @Produces methods (spec.md
// §4.3 source 3): same binding mechanics as providers, distinct
// annotation vocabulary.
var producesAnnotations = map[string]bool{
	"javax.enterprise.inject.Produces":   true,
	"jakarta.enterprise.inject.Produces": true,
}

// ResolveProviders implements spec.md §4.3 source 2.
func ResolveProviders(g *model.ClassGraph) []Binding {
	return resolveAnnotatedFactories(g, providesAnnotations)
}

// ResolveProduces implements spec.md §4.3 source 3.
func ResolveProduces(g *model.ClassGraph) []Binding {
	return resolveAnnotatedFactories(g, producesAnnotations)
}

// resolveAnnotatedFactories binds a recognised factory method's return
// type to its declaring class — "the provider is the concrete origin"
// (spec.md §4.3).
func resolveAnnotatedFactories(g *model.ClassGraph, annotations map[string]bool) []Binding {
	var out []Binding
	for _, c := range g.All() {
		for _, m := range c.Methods {
			if !hasAnyAnnotation(m.Annotations, annotations) {
				continue
			}
			parsed, err := descriptor.ParseMethod(m.Descriptor)
			if err != nil || parsed.Return == "V" {
				continue
			}
			returnFQN := descriptor.FQN(parsed.Return)
			if returnFQN == "" {
				continue // primitive or array-of-primitive return: no binding key
			}
			out = append(out, Binding{
				Key:         model.BindingKey{TypeFQN: returnFQN},
				ConcreteFQN: c.FQN,
			})
		}
	}
	return out
}

func hasAnyAnnotation(annotations []string, set map[string]bool) bool {
	for _, a := range annotations {
		if set[a] {
			return true
		}
	}
	return false
}
