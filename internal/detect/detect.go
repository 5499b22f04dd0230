// Package detect implements the Detector Pipeline (spec.md §4.6): a set of
// independent, pure analysis passes over the decoded class graph, the
// binding table, and the reachability results. Each detector's output
// depends only on its own inputs, never on another detector's findings,
// so the pipeline is safe to run concurrently (spec.md §5).
package detect

import (
	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/model"
	"github.com/state-scan/state-scan/internal/reachability"
)

// Detector is one pipeline stage.
type Detector func(g *model.ClassGraph, cat *catalogue.Catalogue, table *binding.BindingTable, reach *reachability.Results) []model.Finding

// All lists every detector in the pipeline, in spec.md §4.6's order, plus
// the Metric-State Detector SPEC_FULL.md adds. A scan runs each
// independently and concatenates the results; detector order has no
// bearing on correctness — aggregation imposes the user-facing order.
var All = []Detector{
	StaticState,
	Singleton,
	ExternalState,
	Cache,
	ThreadLocal,
	Resilience,
	FileState,
	ServiceClient,
	Metric,
}

// pathFindings turns every root that reached category into one Finding,
// shared by the four detectors whose risk is fundamentally about
// reachability to a leaf resource type rather than a literal field on the
// root itself (external-state, resilience, file-state, service-client).
// Metric walks the same reachability results with its own loop.
func pathFindings(reach *reachability.Results, category reachability.Category, detectorID string, stateType model.StateType, pattern string, describe func(root, leaf string) string, recommendation string) []model.Finding {
	var out []model.Finding
	for _, root := range reach.Roots() {
		pr, ok := reach.Path(root, category)
		if !ok {
			continue
		}
		leaf := root
		if n := len(pr.Path); n > 0 {
			leaf = pr.Path[n-1].ClassFQN
		}
		risk := AssignRisk(RiskInputs{StateType: stateType, InferredOnly: pathIsInferredOnly(pr)})
		out = append(out, model.Finding{
			ClassFQN:          root,
			DetectorID:        detectorID,
			Pattern:           pattern,
			StateType:         stateType,
			RiskLevel:         risk,
			ReachabilityPath:  pr.Path,
			AffectedEndpoints: pr.AffectedEndpoints,
			Description:       describe(root, leaf),
			Recommendation:    recommendation,
		})
	}
	return out
}

// pathIsInferredOnly reports whether every DI_BINDING hop along pr's path
// resolved via single-implementation inference rather than an explicit
// binding source. A path with no DI_BINDING hops at all is never
// inference-only — FIELD, INVOCATION, and INHERITANCE edges carry no
// confidence discount.
func pathIsInferredOnly(pr reachability.PathResult) bool {
	sawDIBinding := false
	for _, step := range pr.Path {
		if step.Edge == model.EdgeDIBinding {
			sawDIBinding = true
			if !step.Inferred {
				return false
			}
		}
	}
	return sawDIBinding
}
