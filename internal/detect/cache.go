package detect

import (
	"fmt"

	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/model"
	"github.com/state-scan/state-scan/internal/reachability"
)

// Cache implements spec.md §4.6's Cache Detector: a static final field
// typed as a known cache implementation or a bare mutable collection
// (map/list/set/queue) accumulates entries for the process's lifetime —
// final only protects the reference, never its contents.
func Cache(g *model.ClassGraph, cat *catalogue.Catalogue, _ *binding.BindingTable, _ *reachability.Results) []model.Finding {
	var out []model.Finding
	for _, c := range g.ProjectLocal() {
		for _, f := range c.Fields {
			if !f.IsStatic {
				continue
			}
			fqn := fieldTypeFQN(f)
			if fqn == "" {
				continue
			}
			if !cat.CacheTypes.Matches(fqn) && !cat.MutableCollectionTypes.Matches(fqn) {
				continue
			}
			if isSafe(cat, fqn) {
				continue
			}
			risk := AssignRisk(RiskInputs{StateType: model.StateCache, IsStatic: true, IsFinal: f.IsFinal})
			out = append(out, model.Finding{
				ClassFQN:       c.FQN,
				FieldName:      f.Name,
				FieldType:      humanFieldType(f.Descriptor),
				SourceFile:     c.SourceFile,
				DetectorID:     "cache",
				Pattern:        "static cache/collection field",
				StateType:      model.StateCache,
				RiskLevel:      risk,
				Description:    fmt.Sprintf("%s.%s accumulates entries in process memory for the life of the instance; a second instance behind the load balancer starts with an empty, divergent copy.", c.FQN, f.Name),
				Recommendation: "Move the cache to a shared store (Redis, Memcached, a database) or bound and make it per-request if it must stay local.",
			})
		}
	}
	return out
}
