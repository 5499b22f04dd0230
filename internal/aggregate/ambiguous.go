package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/model"
	"github.com/state-scan/state-scan/internal/reachability"
)

// AmbiguousFindings implements spec.md §7's AmbiguousBinding rule: "not an
// error, recorded as an info finding if the interface appears on a
// reachability path." Resolution never guesses between multiple
// implementations (internal/binding/inference.go), so an ambiguous
// interface can never itself be a DI_BINDING edge target — the
// Reachability Engine's recorded paths only ever contain edges that did
// resolve. Every project-local class is trivially the root of its own
// (possibly zero-length) reachability path, so this walks the full
// project-local set directly rather than reach's leaf-matched subset, and
// flags any injected parameter whose type is one of BindingTable's
// recorded ambiguous interfaces. reach is accepted for signature symmetry
// with the detector pipeline and reserved for a future depth-bounded
// variant; it carries no information this pass needs today.
func AmbiguousFindings(g *model.ClassGraph, table *binding.BindingTable, _ *reachability.Results) []model.Finding {
	if len(table.Ambiguous) == 0 {
		return nil
	}

	classes := g.ProjectLocal()
	order := make([]string, 0, len(classes))
	for _, c := range classes {
		order = append(order, c.FQN)
	}
	sort.Strings(order)

	type seenKey struct{ fqn, iface string }
	seen := map[seenKey]bool{}
	var out []model.Finding

	for _, fqn := range order {
		shape, ok := g.Lookup(fqn)
		if !ok {
			continue
		}
		for _, m := range shape.Methods {
			for _, key := range binding.ExpandParameters(g, m) {
				candidates, ambiguous := table.Ambiguous[key.TypeFQN]
				if !ambiguous {
					continue
				}
				k := seenKey{fqn, key.TypeFQN}
				if seen[k] {
					continue
				}
				seen[k] = true
				out = append(out, model.Finding{
					ClassFQN:       fqn,
					DetectorID:     "ambiguous-binding",
					Pattern:        "ambiguous DI binding",
					RiskLevel:      model.RiskInfo,
					Description:    fmt.Sprintf("%s depends on %s, which has %d candidate implementations (%s); the scan could not pick one.", fqn, key.TypeFQN, len(candidates), strings.Join(candidates, ", ")),
					Recommendation: "Add an explicit binding or qualifier so state-scan (and your DI container) resolve this dependency the same way.",
				})
			}
		}
	}
	return out
}
