package detect

import "github.com/state-scan/state-scan/internal/model"

// RiskInputs carries the facts AssignRisk needs to pick a row of spec.md
// §4.6's risk-assignment table. Not every field applies to every
// detector; callers set only what is relevant to the finding they built.
type RiskInputs struct {
	StateType    model.StateType
	IsStatic     bool
	IsFinal      bool
	IsMetricType bool
	InferredOnly bool
}

// AssignRisk implements spec.md §4.6's risk-assignment table. The table's
// rows overlap (a finding can be both "static non-final" and reached only
// through inference), so this applies a fixed precedence, recorded in
// DESIGN.md: a non-final static field is worst regardless of anything
// else; an external-state leaf stays CRITICAL even when the path to it
// was inferred, because the risk comes from the resource itself, not our
// confidence in the path; everything else downgrades to LOW when the only
// way we found it was single-implementation inference, before the
// remaining category rows apply.
func AssignRisk(in RiskInputs) model.RiskLevel {
	switch {
	case in.IsStatic && !in.IsFinal:
		return model.RiskCritical
	case in.StateType == model.StateExternal:
		return model.RiskCritical
	case in.InferredOnly:
		return model.RiskLow
	case in.StateType == model.StateCache && in.IsStatic && in.IsFinal:
		return model.RiskHigh
	case in.StateType == model.StateThreadLocal:
		return model.RiskHigh
	case in.StateType == model.StateSingleton:
		return model.RiskHigh
	case in.IsMetricType:
		return model.RiskMedium
	case in.StateType == model.StateResilience,
		in.StateType == model.StateFile,
		in.StateType == model.StateClient:
		return model.RiskMedium
	default:
		return model.RiskMedium
	}
}
