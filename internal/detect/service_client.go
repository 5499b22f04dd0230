package detect

import (
	"fmt"

	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/model"
	"github.com/state-scan/state-scan/internal/reachability"
)

// ServiceClient implements spec.md §4.6's Service-Client Detector: a
// long-lived HTTP/gRPC/cloud-SDK client typically pools connections or
// keeps keep-alive state, so holding one per instance (rather than sharing
// a properly configured client) defeats connection reuse across the
// fleet. gRPC channels/stubs are folded into this detector rather than
// given their own detector_id — they are one more flavour of long-lived
// client, not a structurally distinct category.
func ServiceClient(_ *model.ClassGraph, _ *catalogue.Catalogue, _ *binding.BindingTable, reach *reachability.Results) []model.Finding {
	out := pathFindings(reach, reachability.CategoryServiceClient, "service-client", model.StateClient,
		"reaches service client",
		func(root, leaf string) string {
			return fmt.Sprintf("%s holds a path to %s, a long-lived service client whose connection pool/keep-alive state is local to this instance.", root, leaf)
		},
		"Share one client instance per target service rather than constructing it per caller, and confirm its pool sizing accounts for the whole fleet.",
	)
	out = append(out, pathFindings(reach, reachability.CategoryGRPC, "service-client", model.StateClient,
		"reaches gRPC channel/stub",
		func(root, leaf string) string {
			return fmt.Sprintf("%s holds a path to %s, a gRPC channel/stub whose connection state is local to this instance.", root, leaf)
		},
		"Share one managed Channel per target and build stubs from it on demand rather than holding a stub with its own channel per caller.",
	)...)
	return out
}
