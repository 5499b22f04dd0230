package detect

import (
	"fmt"

	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/model"
	"github.com/state-scan/state-scan/internal/reachability"
)

// Resilience implements spec.md §4.6's Resilience Detector: a circuit
// breaker, rate limiter, or bulkhead (Resilience4j, Hystrix) tracks its
// open/closed state and call counters in process memory, so every
// instance behind the load balancer independently decides whether the
// circuit is open.
func Resilience(_ *model.ClassGraph, _ *catalogue.Catalogue, _ *binding.BindingTable, reach *reachability.Results) []model.Finding {
	return pathFindings(reach, reachability.CategoryResilience, "resilience", model.StateResilience,
		"reaches resilience primitive",
		func(root, leaf string) string {
			return fmt.Sprintf("%s holds a path to %s; its open/closed state and call counters are local to this instance.", root, leaf)
		},
		"Confirm instances agreeing on circuit state is not required, or move the shared counters to a distributed rate limiter/circuit breaker backend.",
	)
}
