package binding

import "github.com/state-scan/state-scan/internal/model"

// qualifierMetaAnnotations are the meta-annotations that mark a project's
// own custom qualifier annotations (spec.md §4.3: "a parameter annotation
// whose class is itself annotated as a qualifier").
var qualifierMetaAnnotations = map[string]bool{
	"javax.inject.Qualifier":   true,
	"jakarta.inject.Qualifier": true,
}

// IsQualifierAnnotation reports whether annotationFQN's own class
// declaration, if present in the graph, carries a @Qualifier
// meta-annotation. Annotation types decode like any other class, so a
// project-local qualifier annotation is simply looked up by FQN.
func IsQualifierAnnotation(g *model.ClassGraph, annotationFQN string) bool {
	decl, ok := g.Lookup(annotationFQN)
	if !ok {
		return false
	}
	for _, a := range decl.Annotations {
		if qualifierMetaAnnotations[a] {
			return true
		}
	}
	return false
}

// ExpandParameters implements spec.md §4.3 source 6: turns one
// constructor or method's recorded parameter metadata into the
// BindingKeys the reachability engine must resolve against the table,
// extracting a qualifier tag from whichever parameter annotation (if any)
// is itself meta-annotated as a qualifier.
func ExpandParameters(g *model.ClassGraph, m *model.MethodShape) []model.BindingKey {
	keys := make([]model.BindingKey, 0, len(m.Parameters))
	for _, p := range m.Parameters {
		key := model.BindingKey{TypeFQN: p.TypeFQN}
		for _, a := range p.Annotations {
			if IsQualifierAnnotation(g, a) {
				key.Qualifier = a
				break
			}
		}
		keys = append(keys, key)
	}
	return keys
}
