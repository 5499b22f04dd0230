package model

// BindingKey identifies a DI lookup: a type, optionally narrowed by a
// qualifier tag extracted from a qualifier annotation.
type BindingKey struct {
	TypeFQN   string
	Qualifier string // empty if unqualified
}

// ResolvedClasspath is the input handed to the core by the build-tool
// descriptor collaborator (out of scope — see spec.md §1).
type ResolvedClasspath struct {
	ProjectClassDirs      []string
	DependencyArchives    []string
	DetectedPackagePrefix string // optional hint; empty triggers auto-detection
}
