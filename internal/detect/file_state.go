package detect

import (
	"fmt"

	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/model"
	"github.com/state-scan/state-scan/internal/reachability"
)

// FileState implements spec.md §4.6's File-State Detector: an open file
// handle, memory-mapped buffer, or local-disk-backed resource only exists
// on the instance that opened it — any other instance has no access to it.
func FileState(_ *model.ClassGraph, _ *catalogue.Catalogue, _ *binding.BindingTable, reach *reachability.Results) []model.Finding {
	return pathFindings(reach, reachability.CategoryFileState, "file-state", model.StateFile,
		"reaches file-backed resource",
		func(root, leaf string) string {
			return fmt.Sprintf("%s holds a path to %s, a local-disk-backed resource invisible to every other instance.", root, leaf)
		},
		"Move the data behind a shared filesystem or object store, or confirm the resource is scratch space that is safe to lose on instance replacement.",
	)
}
