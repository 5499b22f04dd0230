// Package scanerr holds the typed error taxonomy state-scan reports
// through (spec.md §7): which failures abort a scan outright and which
// are isolated to the one class, archive entry, or config key that
// triggered them. Grounded on the teacher's preference for small typed
// error structs over sentinel errors.New values whenever the error
// carries structured data (output.InvalidSeverityError, the same shape
// repeated here six times).
package scanerr

import "fmt"

// ProjectDiscoveryError means the project path could not be read or
// contained no class files at all. Fatal; the CLI collaborator maps this
// to exit code 1.
type ProjectDiscoveryError struct {
	Path string
	Err  error
}

func (e *ProjectDiscoveryError) Error() string {
	return fmt.Sprintf("scanerr: discovering project at %s: %v", e.Path, e.Err)
}

func (e *ProjectDiscoveryError) Unwrap() error { return e.Err }

// ArchiveReadError means one dependency archive could not be opened or
// walked. Non-fatal: the archive is skipped and the scan continues with
// the rest of the classpath.
type ArchiveReadError struct {
	Path string
	Err  error
}

func (e *ArchiveReadError) Error() string {
	return fmt.Sprintf("scanerr: reading archive %s: %v", e.Path, e.Err)
}

func (e *ArchiveReadError) Unwrap() error { return e.Err }

// ClassDecodeError means one class file's bytes were malformed. Non-fatal:
// the class is omitted from the graph and the scan continues.
type ClassDecodeError struct {
	Path string
	FQN  string // empty if the name could not be determined before failing
	Err  error
}

func (e *ClassDecodeError) Error() string {
	if e.FQN != "" {
		return fmt.Sprintf("scanerr: decoding class %s (%s): %v", e.FQN, e.Path, e.Err)
	}
	return fmt.Sprintf("scanerr: decoding class at %s: %v", e.Path, e.Err)
}

func (e *ClassDecodeError) Unwrap() error { return e.Err }

// ConfigParseError means the user-supplied YAML configuration document
// was malformed. Fatal; the CLI collaborator maps this to exit code 1.
type ConfigParseError struct {
	Path string
	Err  error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("scanerr: parsing config %s: %v", e.Path, e.Err)
}

func (e *ConfigParseError) Unwrap() error { return e.Err }

// BadExcludePattern means one exclude-regex entry failed to compile.
// Non-fatal: the pattern is dropped, a warning is surfaced, and every
// other pattern in the document still applies.
type BadExcludePattern struct {
	Pattern string
	Err     error
}

func (e *BadExcludePattern) Error() string {
	return fmt.Sprintf("scanerr: exclude pattern %q: %v", e.Pattern, e.Err)
}

func (e *BadExcludePattern) Unwrap() error { return e.Err }

// AmbiguousBinding is not an error in the Go sense — the aggregator
// surfaces it as an info-level model.Finding, never as a returned error —
// but it is named here anyway so the complete taxonomy of spec.md §7
// lives in one place and a caller constructing diagnostic text has a
// single type to format consistently with the five error kinds above.
type AmbiguousBinding struct {
	InterfaceFQN string
	Candidates   []string
}

func (e *AmbiguousBinding) Error() string {
	return fmt.Sprintf("scanerr: %s has %d candidate implementations and cannot be resolved unambiguously", e.InterfaceFQN, len(e.Candidates))
}

// Fatal reports whether err should abort the scan (exit 1) rather than be
// isolated to the unit that produced it (spec.md §7 "only whole-input
// errors are fatal").
func Fatal(err error) bool {
	switch err.(type) {
	case *ProjectDiscoveryError, *ConfigParseError:
		return true
	default:
		return false
	}
}
