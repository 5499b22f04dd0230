package detect

import (
	"fmt"

	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/model"
	"github.com/state-scan/state-scan/internal/reachability"
)

// Metric implements SPEC_FULL.md's Metric-State Detector, supplementing
// spec.md's eight detectors: a counter, gauge, or histogram held by a
// project root accumulates in process memory, so per-instance metrics
// diverge from the fleet-wide picture unless the metrics backend itself
// aggregates across instances (as Prometheus/Micrometer registries
// typically do) — this is informational rather than a scaling hazard in
// most setups, which is why it never ranks above MEDIUM.
func Metric(_ *model.ClassGraph, _ *catalogue.Catalogue, _ *binding.BindingTable, reach *reachability.Results) []model.Finding {
	var out []model.Finding
	for _, root := range reach.Roots() {
		pr, ok := reach.Path(root, reachability.CategoryMetric)
		if !ok {
			continue
		}
		leaf := root
		if n := len(pr.Path); n > 0 {
			leaf = pr.Path[n-1].ClassFQN
		}
		risk := AssignRisk(RiskInputs{StateType: model.StateInMemory, IsMetricType: true, InferredOnly: pathIsInferredOnly(pr)})
		out = append(out, model.Finding{
			ClassFQN:          root,
			DetectorID:        "metric",
			Pattern:           "reaches counter/gauge/histogram metric",
			StateType:         model.StateInMemory,
			RiskLevel:         risk,
			ReachabilityPath:  pr.Path,
			AffectedEndpoints: pr.AffectedEndpoints,
			Description:       fmt.Sprintf("%s holds a path to %s, a metric instrument whose value is local to this instance until scraped/aggregated.", root, leaf),
			Recommendation:    "Confirm the metrics backend aggregates across instances (e.g. a Prometheus pull per instance, summed at query time) rather than relying on a single instance's count.",
		})
	}
	return out
}
