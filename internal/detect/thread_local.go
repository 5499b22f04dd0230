package detect

import (
	"fmt"

	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/model"
	"github.com/state-scan/state-scan/internal/reachability"
)

// ThreadLocal implements spec.md §4.6's ThreadLocal Detector: any field,
// static or instance, whose declared type matches the catalogue's
// thread-local-types set (including shaded relocations, via the prefix
// match rule) leaks state across the thread pool between requests.
func ThreadLocal(g *model.ClassGraph, cat *catalogue.Catalogue, _ *binding.BindingTable, _ *reachability.Results) []model.Finding {
	var out []model.Finding
	for _, c := range g.ProjectLocal() {
		for _, f := range c.Fields {
			fqn := fieldTypeFQN(f)
			if fqn == "" || !cat.ThreadLocalTypes.Matches(fqn) {
				continue
			}
			if isSafe(cat, fqn) {
				continue
			}
			risk := AssignRisk(RiskInputs{StateType: model.StateThreadLocal})
			out = append(out, model.Finding{
				ClassFQN:       c.FQN,
				FieldName:      f.Name,
				FieldType:      humanFieldType(f.Descriptor),
				SourceFile:     c.SourceFile,
				DetectorID:     "thread-local",
				Pattern:        "ThreadLocal field",
				StateType:      model.StateThreadLocal,
				RiskLevel:      risk,
				Description:    fmt.Sprintf("%s.%s is never visible across the threads handling a single request and leaks across the executor's thread pool between requests unless explicitly cleared.", c.FQN, f.Name),
				Recommendation: "Call remove() when the unit of work completes, or replace the ThreadLocal with an explicitly passed request-scoped value.",
			})
		}
	}
	return out
}
