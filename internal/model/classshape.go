// Package model holds the plain data records shared by every stage of the
// scan pipeline: decoded class shapes, the class graph, binding keys, and
// the finding/report records the detector pipeline produces. Nothing in
// this package has behaviour beyond small derived predicates — the graph
// is built once and treated as immutable afterward (see internal/graph).
package model

import "strings"

// ClassShape is the decoded, structural form of a single .class file.
type ClassShape struct {
	FQN        string // dotted form, e.g. "com.example.Service"
	Superclass string // dotted form; empty for java.lang.Object and interfaces with no super
	Interfaces []string

	Annotations []string // class-level annotation FQNs
	Fields      []*FieldShape
	Methods     []*MethodShape

	IsInterface    bool
	IsAbstract     bool
	IsEnum         bool
	IsProjectLocal bool
	SourceFile     string // empty if no debug info
}

// FieldShape is one field declaration on a class.
type FieldShape struct {
	Name       string
	Descriptor string // raw JVM form, e.g. "Ljava/util/Map;"
	Annotations []string

	IsStatic  bool
	IsFinal   bool
	IsPrivate bool
	IsVolatile bool
}

// IsPotentiallyMutable is true for any non-constant field: the decoder has
// no dataflow information, so "potentially mutable" means only "not proven
// immutable by static+final+primitive/String".
func (f *FieldShape) IsPotentiallyMutable() bool {
	return !f.IsConstant()
}

// IsStaticMutable is the predicate behind invariant (ii) in spec.md §3: a
// static field that is not a compile-time constant.
func (f *FieldShape) IsStaticMutable() bool {
	return f.IsStatic && !f.IsConstant()
}

// IsConstant recognises static-final primitive or String fields, which the
// JVM inlines at compile time and which therefore hold no mutable process
// state regardless of declared type.
func (f *FieldShape) IsConstant() bool {
	if !f.IsStatic || !f.IsFinal {
		return false
	}
	return isPrimitiveDescriptor(f.Descriptor) || f.Descriptor == "Ljava/lang/String;"
}

// IsLogger is a cheap name/type heuristic used to exclude logger fields
// from the static-state detector before the catalogue's safe-type list is
// even consulted (loggers are by far the most common static-final field in
// real projects and are never a scaling hazard).
func (f *FieldShape) IsLogger() bool {
	return strings.Contains(strings.ToLower(f.Name), "log") || strings.Contains(f.Descriptor, "Logger")
}

func isPrimitiveDescriptor(d string) bool {
	switch d {
	case "B", "C", "D", "F", "I", "J", "S", "Z":
		return true
	default:
		return false
	}
}

// ParameterShape is one formal parameter of a method. Parameters are only
// populated for methods carrying an injection/provider annotation, or for
// constructors with any parameter annotation — see MethodShape.Parameters.
type ParameterShape struct {
	Index       int
	TypeFQN     string
	Annotations []string
}

// MethodShape is one method (or constructor) declaration on a class.
type MethodShape struct {
	Name       string
	Descriptor string
	Annotations []string

	// Parameters is populated only when this method carries a recognised
	// injection/provider annotation, or is <init> with any parameter
	// annotation — a memory optimisation, not a correctness contract
	// (spec.md §9 "Parameter metadata memory gate").
	Parameters []*ParameterShape

	Invocations    []MethodRef
	FieldAccesses  []FieldRef
	ClassConstants []string // dotted FQNs pushed via ldc of a Class constant

	IsStatic   bool
	IsPublic   bool
	IsAbstract bool
}

// IsConstructor reports whether this is a JVM instance initializer.
func (m *MethodShape) IsConstructor() bool { return m.Name == "<init>" }

// IsStaticInitializer reports whether this is a JVM class initializer.
func (m *MethodShape) IsStaticInitializer() bool { return m.Name == "<clinit>" }

// MethodRef identifies a called method by owner, name, and descriptor.
type MethodRef struct {
	Owner      string
	Name       string
	Descriptor string
}

// FieldRef identifies an accessed field by owner and name. Descriptor is
// optional — not every access site in the constant pool resolves one.
type FieldRef struct {
	Owner      string
	Name       string
	Descriptor string
}
