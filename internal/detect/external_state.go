package detect

import (
	"fmt"

	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/model"
	"github.com/state-scan/state-scan/internal/reachability"
)

// ExternalState implements spec.md §4.6's External-State Detector: a
// project-local root with a reachability path to a JDBC connection, a
// Redis/Kafka/Mongo client, or any other connection- or session-carrying
// external resource holds state that cannot simply be round-robined across
// instances without a shared pool.
func ExternalState(_ *model.ClassGraph, _ *catalogue.Catalogue, _ *binding.BindingTable, reach *reachability.Results) []model.Finding {
	return pathFindings(reach, reachability.CategoryExternalState, "external-state", model.StateExternal,
		"reaches external-state resource",
		func(root, leaf string) string {
			return fmt.Sprintf("%s holds a path to %s, a connection- or session-carrying external resource.", root, leaf)
		},
		"Confirm the resource is pooled and thread-safe, and that its lifecycle is managed by a shared pool rather than held open per instance.",
	)
}
