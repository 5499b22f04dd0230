// Package aggregate implements the Aggregation & Exclusion stage (spec.md
// §4.7): exclude findings the user's regexes carve out, deduplicate
// repeated evidence for the same (detector, class, field/pattern, leaf),
// group what survives by class, and decide the --fail-on gate. It is the
// single-threaded stage that turns the Detector Pipeline's raw findings
// into the shape a report renderer hands back to a caller.
package aggregate

import (
	"sort"
	"strings"

	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/model"
)

// Options configures Run's suppression and gating behaviour, sourced from
// the CLI surface's --risk-threshold and --fail-on flags (spec.md §6).
type Options struct {
	// RiskThreshold suppresses findings less severe than this level from
	// the final report. The zero value disables suppression.
	RiskThreshold model.RiskLevel
	// FailOn is the severity the exit-code gate watches for. The zero
	// value disables the gate: FailOnMet is always false.
	FailOn model.RiskLevel
}

// ClassSummary is one per-class rollup in the grouped report.
type ClassSummary struct {
	ClassFQN string
	Findings []model.Finding
}

// Result is Run's output.
type Result struct {
	// Findings is the final, deduplicated, threshold-filtered list,
	// ordered to match ByClass (every class's findings run together,
	// classes ordered by worst severity present then finding count).
	Findings []model.Finding
	ByClass  []ClassSummary

	// HighestRisk is the most severe RiskLevel among Findings, or zero if
	// Findings is empty.
	HighestRisk model.RiskLevel
	// FailOnMet reports whether some finding's severity is at or above
	// Options.FailOn (spec.md §8 S8). Always false when FailOn is unset.
	FailOnMet bool
}

// Run executes all three phases of spec.md §4.7 over the raw findings
// produced by internal/detect, plus any info-level findings the caller
// has already synthesised (e.g. AmbiguousBinding) and wants folded into
// the same dedup/group/gate pipeline.
func Run(findings []model.Finding, cat *catalogue.Catalogue, opts Options) Result {
	excluded := exclude(findings, cat)
	deduped := dedup(excluded)
	kept := thresholded(deduped, opts.RiskThreshold)

	byClass := group(kept)

	flat := make([]model.Finding, 0, len(kept))
	for _, cs := range byClass {
		flat = append(flat, cs.Findings...)
	}

	result := Result{Findings: flat, ByClass: byClass}
	for _, f := range flat {
		if result.HighestRisk == 0 || f.RiskLevel < result.HighestRisk {
			result.HighestRisk = f.RiskLevel
		}
	}
	if opts.FailOn != 0 && result.HighestRisk != 0 && result.HighestRisk <= opts.FailOn {
		result.FailOnMet = true
	}
	return result
}

// exclude is phase 1 (spec.md §8 S7): drop any finding whose field type —
// or, for a path-scoped finding with no declared field, the reachability
// leaf it terminates at — matches a user exclude-regex. A finding that
// offers neither (a bare class-level finding) is never excluded; the
// catalogue's compiled Exclude list already merges the default document
// with user additions and CLI --exclude globs (internal/catalogue).
func exclude(findings []model.Finding, cat *catalogue.Catalogue) []model.Finding {
	out := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		if candidate := excludeCandidate(f); candidate != "" && cat.IsExcluded(candidate) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// excludeCandidate picks the FQN a finding is judged against for
// exclusion: its declared field type if it has one (stripped of any
// array suffix), otherwise the class the reachability path actually
// terminates at.
func excludeCandidate(f model.Finding) string {
	if f.FieldType != "" {
		return strings.TrimSuffix(f.FieldType, "[]")
	}
	if n := len(f.ReachabilityPath); n > 0 {
		return f.ReachabilityPath[n-1].ClassFQN
	}
	return ""
}

// dedupKey is spec.md §4.7 phase 2's key: (detector_id, class_fqn,
// field_name|pattern, leaf_fqn?).
type dedupKey struct {
	DetectorID     string
	ClassFQN       string
	FieldOrPattern string
	LeafFQN        string
}

func keyOf(f model.Finding) dedupKey {
	fieldOrPattern := f.FieldName
	if fieldOrPattern == "" {
		fieldOrPattern = f.Pattern
	}
	var leaf string
	if n := len(f.ReachabilityPath); n > 0 {
		leaf = f.ReachabilityPath[n-1].ClassFQN
	}
	return dedupKey{
		DetectorID:     f.DetectorID,
		ClassFQN:       f.ClassFQN,
		FieldOrPattern: fieldOrPattern,
		LeafFQN:        leaf,
	}
}

// dedup is phase 2: first occurrence wins, order otherwise preserved.
func dedup(findings []model.Finding) []model.Finding {
	seen := make(map[dedupKey]bool, len(findings))
	out := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		k := keyOf(f)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, f)
	}
	return out
}

// thresholded drops findings less severe than threshold (--risk-threshold).
// A zero threshold keeps everything.
func thresholded(findings []model.Finding, threshold model.RiskLevel) []model.Finding {
	if threshold == 0 {
		return findings
	}
	out := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		if f.RiskLevel <= threshold {
			out = append(out, f)
		}
	}
	return out
}

// group is phase 3: roll findings up per class, then order classes by
// worst severity present (ascending RiskLevel value = most severe first),
// finding count descending, and FQN as a final tiebreaker for a
// deterministic report.
func group(findings []model.Finding) []ClassSummary {
	order := make([]string, 0)
	byClass := make(map[string][]model.Finding)
	for _, f := range findings {
		if _, ok := byClass[f.ClassFQN]; !ok {
			order = append(order, f.ClassFQN)
		}
		byClass[f.ClassFQN] = append(byClass[f.ClassFQN], f)
	}

	summaries := make([]ClassSummary, 0, len(order))
	for _, fqn := range order {
		fs := byClass[fqn]
		sort.SliceStable(fs, func(i, j int) bool {
			if fs[i].RiskLevel != fs[j].RiskLevel {
				return fs[i].RiskLevel < fs[j].RiskLevel
			}
			if fs[i].DetectorID != fs[j].DetectorID {
				return fs[i].DetectorID < fs[j].DetectorID
			}
			return fs[i].FieldName < fs[j].FieldName
		})
		summaries = append(summaries, ClassSummary{ClassFQN: fqn, Findings: fs})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		wi, wj := worstSeverity(summaries[i].Findings), worstSeverity(summaries[j].Findings)
		if wi != wj {
			return wi < wj
		}
		if len(summaries[i].Findings) != len(summaries[j].Findings) {
			return len(summaries[i].Findings) > len(summaries[j].Findings)
		}
		return summaries[i].ClassFQN < summaries[j].ClassFQN
	})
	return summaries
}

func worstSeverity(findings []model.Finding) model.RiskLevel {
	worst := model.RiskLevel(0)
	for _, f := range findings {
		if worst == 0 || f.RiskLevel < worst {
			worst = f.RiskLevel
		}
	}
	return worst
}
