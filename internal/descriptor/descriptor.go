// Package descriptor parses and emits JVM type and method descriptors, and
// maps between the internal slash-separated class name form and the
// dotted external form used everywhere else in state-scan (spec.md §4.2).
package descriptor

import (
	"fmt"
	"strings"
)

// ToExternal converts an internal (slash) class name to dotted external
// form: "com/example/Foo" -> "com.example.Foo". Names already in dotted
// form are returned unchanged.
func ToExternal(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

// ToInternal converts a dotted external class name to internal (slash)
// form: "com.example.Foo" -> "com/example/Foo".
func ToInternal(external string) string {
	return strings.ReplaceAll(external, ".", "/")
}

// Method is a parsed method descriptor: ordered parameter descriptors plus
// a return descriptor.
type Method struct {
	Params []string
	Return string
}

// ParseMethod parses a JVM method descriptor of the form "(Params)Return".
func ParseMethod(raw string) (Method, error) {
	if len(raw) == 0 || raw[0] != '(' {
		return Method{}, fmt.Errorf("descriptor: malformed method descriptor %q: missing '('", raw)
	}
	close := strings.IndexByte(raw, ')')
	if close < 0 {
		return Method{}, fmt.Errorf("descriptor: malformed method descriptor %q: missing ')'", raw)
	}
	paramBlob := raw[1:close]
	retBlob := raw[close+1:]

	params, err := splitFieldDescriptors(paramBlob)
	if err != nil {
		return Method{}, fmt.Errorf("descriptor: parsing parameters of %q: %w", raw, err)
	}
	if retBlob != "V" {
		if _, err := splitOneFieldDescriptor(retBlob); err != nil {
			return Method{}, fmt.Errorf("descriptor: parsing return type of %q: %w", raw, err)
		}
	}
	return Method{Params: params, Return: retBlob}, nil
}

// ParseField validates a single field (type) descriptor and returns it
// unchanged — field descriptors are stored raw in FieldShape.Descriptor,
// this only rejects malformed input early.
func ParseField(raw string) (string, error) {
	rest, err := splitOneFieldDescriptor(raw)
	if err != nil {
		return "", fmt.Errorf("descriptor: malformed field descriptor %q: %w", raw, err)
	}
	if rest != "" {
		return "", fmt.Errorf("descriptor: trailing data after field descriptor %q", raw)
	}
	return raw, nil
}

// splitFieldDescriptors splits a run of consecutive field descriptors
// (as found inside a method descriptor's parameter list) into a slice.
func splitFieldDescriptors(blob string) ([]string, error) {
	var out []string
	for len(blob) > 0 {
		one, rest, err := consumeOneFieldDescriptor(blob)
		if err != nil {
			return nil, err
		}
		out = append(out, one)
		blob = rest
	}
	return out, nil
}

// splitOneFieldDescriptor consumes exactly one field descriptor from raw
// and returns whatever followed it (empty string if raw was exactly one
// descriptor).
func splitOneFieldDescriptor(raw string) (rest string, err error) {
	_, rest, err = consumeOneFieldDescriptor(raw)
	return rest, err
}

// consumeOneFieldDescriptor consumes exactly one field descriptor — a
// primitive code, an object reference "L<name>;", or an array prefix "["
// repeated any number of times followed by either of the above.
func consumeOneFieldDescriptor(s string) (descriptor, rest string, err error) {
	if s == "" {
		return "", "", fmt.Errorf("descriptor: unexpected end of input")
	}
	arrayDepth := 0
	i := 0
	for i < len(s) && s[i] == '[' {
		arrayDepth++
		i++
	}
	if i >= len(s) {
		return "", "", fmt.Errorf("descriptor: array prefix with no element type")
	}
	switch s[i] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 'V':
		end := i + 1
		return s[:end], s[end:], nil
	case 'L':
		semi := strings.IndexByte(s[i:], ';')
		if semi < 0 {
			return "", "", fmt.Errorf("descriptor: object type missing terminating ';'")
		}
		end := i + semi + 1
		return s[:end], s[end:], nil
	default:
		return "", "", fmt.Errorf("descriptor: unrecognised element code %q", s[i])
	}
}

// IsArray reports whether a field descriptor is an array type.
func IsArray(d string) bool {
	return strings.HasPrefix(d, "[")
}

// ElementType strips every leading "[" from an array descriptor, returning
// the descriptor of the element type. Non-array descriptors are returned
// unchanged.
func ElementType(d string) string {
	return strings.TrimLeft(d, "[")
}

// IsPrimitive reports whether a (non-array) field descriptor names a JVM
// primitive type.
func IsPrimitive(d string) bool {
	switch d {
	case "B", "C", "D", "F", "I", "J", "S", "Z", "V":
		return true
	default:
		return false
	}
}

// FQN extracts the dotted class name from an object-type field descriptor
// "L<name>;". For array and primitive descriptors it strips the array
// prefix first and returns "" for primitives (they carry no class name).
func FQN(d string) string {
	elem := ElementType(d)
	if !strings.HasPrefix(elem, "L") || !strings.HasSuffix(elem, ";") {
		return ""
	}
	internal := elem[1 : len(elem)-1]
	return ToExternal(internal)
}
