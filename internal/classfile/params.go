package classfile

import (
	"fmt"

	"github.com/state-scan/state-scan/internal/descriptor"
)

// parseMethodParamTypes returns, for each formal parameter of a method
// descriptor, the type to store on ParameterShape.TypeFQN: the dotted FQN
// for object types, or the raw descriptor for primitives and arrays (the
// DI resolver only ever looks up object-typed parameters, so the exact
// spelling of a primitive/array slot is never consulted).
func parseMethodParamTypes(methodDescriptor string) ([]string, error) {
	parsed, err := descriptor.ParseMethod(methodDescriptor)
	if err != nil {
		return nil, fmt.Errorf("classfile: %w", err)
	}
	out := make([]string, 0, len(parsed.Params))
	for _, p := range parsed.Params {
		if fqn := descriptor.FQN(p); fqn != "" {
			out = append(out, fqn)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
