package detect

import (
	"strings"

	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/descriptor"
	"github.com/state-scan/state-scan/internal/model"
)

// fieldTypeFQN returns the dotted class name of f's declared type, after
// stripping any array prefix. It returns "" for primitive element types.
func fieldTypeFQN(f *model.FieldShape) string {
	return descriptor.FQN(descriptor.ElementType(f.Descriptor))
}

// humanFieldType renders a JVM field descriptor the way a Java developer
// would write the type, for the Finding.FieldType report column.
func humanFieldType(d string) string {
	depth := 0
	for strings.HasPrefix(d, "[") {
		depth++
		d = d[1:]
	}
	var base string
	switch {
	case descriptor.IsPrimitive(d):
		base = primitiveName(d)
	case strings.HasPrefix(d, "L") && strings.HasSuffix(d, ";"):
		base = descriptor.ToExternal(d[1 : len(d)-1])
	default:
		base = d
	}
	return base + strings.Repeat("[]", depth)
}

func primitiveName(d string) string {
	switch d {
	case "B":
		return "byte"
	case "C":
		return "char"
	case "D":
		return "double"
	case "F":
		return "float"
	case "I":
		return "int"
	case "J":
		return "long"
	case "S":
		return "short"
	case "Z":
		return "boolean"
	case "V":
		return "void"
	default:
		return d
	}
}

// isEnumConstantsArray recognises the two synthetic forms a compiled
// enum's generated constants array takes: the $VALUES field itself, or any
// field declared as an array of the enum's own type (spec.md §8 boundary
// behaviour: "enum $VALUES/self-array never finds").
func isEnumConstantsArray(c *model.ClassShape, f *model.FieldShape) bool {
	if !c.IsEnum {
		return false
	}
	if f.Name == "$VALUES" {
		return true
	}
	self := "[L" + descriptor.ToInternal(c.FQN) + ";"
	return f.Descriptor == self
}

// isImmutableLiteralDescriptor reports whether d names a primitive or
// java.lang.String — values the JVM treats as immutable regardless of
// static/final modifiers.
func isImmutableLiteralDescriptor(d string) bool {
	return descriptor.IsPrimitive(d) || d == "Ljava/lang/String;"
}

func hasAnyAnnotation(annotations []string, set catalogue.AnnotationSet) bool {
	for _, a := range annotations {
		if set.Has(a) {
			return true
		}
	}
	return false
}

// isSafe reports whether fqn is declared safe outright. User exclude
// patterns are deliberately NOT applied here — that is aggregation's
// phase 1 job (spec.md §4.7); detectors only ever suppress the
// catalogue's own safe-type carve-out.
func isSafe(cat *catalogue.Catalogue, fqn string) bool {
	return fqn != "" && cat.IsSafeType(fqn)
}
