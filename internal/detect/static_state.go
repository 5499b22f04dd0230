package detect

import (
	"fmt"

	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/model"
	"github.com/state-scan/state-scan/internal/reachability"
)

// StaticState implements spec.md §4.6's Static-State Detector: every
// static, non-constant field on a project-local class is shared by every
// instance of that class in the process, and therefore by every instance
// behind the load balancer too.
func StaticState(g *model.ClassGraph, cat *catalogue.Catalogue, _ *binding.BindingTable, _ *reachability.Results) []model.Finding {
	var out []model.Finding
	for _, c := range g.ProjectLocal() {
		for _, f := range c.Fields {
			if !f.IsStaticMutable() {
				continue
			}
			if f.IsLogger() {
				continue
			}
			if isEnumConstantsArray(c, f) {
				continue
			}
			fqn := fieldTypeFQN(f)
			if isSafe(cat, fqn) {
				continue
			}

			stateType := model.StateInMemory
			switch {
			case fqn != "" && (cat.CacheTypes.Matches(fqn) || cat.MutableCollectionTypes.Matches(fqn)):
				stateType = model.StateCache
			case fqn != "" && cat.ThreadLocalTypes.Matches(fqn):
				stateType = model.StateThreadLocal
			}

			risk := AssignRisk(RiskInputs{StateType: stateType, IsStatic: true, IsFinal: f.IsFinal})
			out = append(out, model.Finding{
				ClassFQN:       c.FQN,
				FieldName:      f.Name,
				FieldType:      humanFieldType(f.Descriptor),
				SourceFile:     c.SourceFile,
				DetectorID:     "static-state",
				Pattern:        "static mutable field",
				StateType:      stateType,
				RiskLevel:      risk,
				Description:    fmt.Sprintf("%s.%s is a%s static field; every instance behind the load balancer shares the same value.", c.FQN, f.Name, finalSuffix(f.IsFinal)),
				Recommendation: "Move this state into a request-scoped value, a shared external store, or an instance field populated per-request instead of a static field.",
			})
		}
	}
	return out
}

func finalSuffix(isFinal bool) string {
	if isFinal {
		return " final"
	}
	return " non-final"
}
