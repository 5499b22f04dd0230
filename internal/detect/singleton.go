package detect

import (
	"fmt"

	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/model"
	"github.com/state-scan/state-scan/internal/reachability"
)

// Singleton implements spec.md §4.6's Singleton Detector: a class whose
// scope is singleton, whether because an annotation says so or because a
// module bound it eagerly, shares every one of its instance fields across
// every caller for the life of the process.
func Singleton(g *model.ClassGraph, cat *catalogue.Catalogue, table *binding.BindingTable, _ *reachability.Results) []model.Finding {
	var out []model.Finding
	for _, c := range g.ProjectLocal() {
		scopeSource, scopeAnnotation, scopeModule, isSingleton := singletonScope(c, table, cat)
		if !isSingleton {
			continue
		}
		for _, f := range c.Fields {
			if !singletonFieldIsMutable(f, cat) {
				continue
			}
			risk := AssignRisk(RiskInputs{StateType: model.StateSingleton})
			out = append(out, model.Finding{
				ClassFQN:        c.FQN,
				FieldName:       f.Name,
				FieldType:       humanFieldType(f.Descriptor),
				SourceFile:      c.SourceFile,
				DetectorID:      "singleton",
				Pattern:         "mutable field on singleton-scoped class",
				StateType:       model.StateSingleton,
				RiskLevel:       risk,
				ScopeSource:     scopeSource,
				ScopeAnnotation: scopeAnnotation,
				ScopeModule:     scopeModule,
				Description:     fmt.Sprintf("%s is singleton-scoped and its %s field is shared by every caller for the life of the process.", c.FQN, f.Name),
				Recommendation:  "Make the field immutable, guard it behind a thread-safe wrapper, or narrow the binding's scope away from singleton.",
			})
		}
	}
	return out
}

// singletonScope reports whether c is singleton-scoped and, if so, how we
// know: a recognised annotation takes precedence over a DI binding that
// marked c an eager singleton (spec.md §4.3 step 1).
func singletonScope(c *model.ClassShape, table *binding.BindingTable, cat *catalogue.Catalogue) (src model.ScopeSource, annotation, module string, ok bool) {
	for _, a := range c.Annotations {
		if cat.SingletonAnnotations.Has(a) {
			return model.ScopeAnnotation, a, "", true
		}
	}
	for _, b := range table.All() {
		if b.ConcreteFQN == c.FQN && b.Singleton {
			return model.ScopeDIBinding, "", b.Key.TypeFQN, true
		}
	}
	return model.ScopeNone, "", "", false
}

// singletonFieldIsMutable applies spec.md §4.6's deliberately loose
// definition of "mutable instance field": with no dataflow or escape
// analysis (a stated Non-goal), any instance field that isn't a logger,
// an immutable primitive/String, or a catalogue-declared safe type counts
// — holding a reference to any other object, final or not, still shares
// that object's mutable state across every caller of the singleton.
func singletonFieldIsMutable(f *model.FieldShape, cat *catalogue.Catalogue) bool {
	if f.IsStatic {
		return false // static fields are the Static-State Detector's concern
	}
	if f.IsLogger() {
		return false
	}
	if isImmutableLiteralDescriptor(f.Descriptor) {
		return false
	}
	return !isSafe(cat, fieldTypeFQN(f))
}
