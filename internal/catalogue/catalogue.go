// Package catalogue holds the configurable leaf-type vocabulary the
// Reachability Engine and Detector Pipeline consult: which annotations mark
// a singleton, which type names count as an external-state client, cache,
// thread-local, resilience primitive, metric, or file handle, and which
// type FQNs are excluded from every finding regardless of category.
package catalogue

import (
	"regexp"
	"strings"
)

// TypeEntry is one member of a type-oriented set. Legacy entries are
// matched with the pre-existing substring rule instead of the canonical
// prefix rule (see matchesType/matchesTypeLegacy below).
type TypeEntry struct {
	Value  string
	Legacy bool
}

// TypeSet is an ordered list of type entries tested with OR semantics.
type TypeSet []TypeEntry

// Matches reports whether queried is covered by any entry in the set.
// Canonical entries use exact-or-prefix match; legacy entries fall back to
// the older substring rule, scoped to only the entries explicitly tagged
// legacy in the configuration document.
func (s TypeSet) Matches(queried string) bool {
	for _, e := range s {
		if e.Legacy {
			if matchesTypeLegacy(e.Value, queried) {
				return true
			}
			continue
		}
		if matchesType(e.Value, queried) {
			return true
		}
	}
	return false
}

// matchesType is the canonical rule: configured name X matches queried
// name Y iff Y == X or Y starts with X. This lets a configured entry name
// a shaded-relocation prefix such as
// "org.apache.pulsar.shade.io.netty.util.concurrent.FastThreadLocal".
func matchesType(configured, queried string) bool {
	return queried == configured || strings.HasPrefix(queried, configured)
}

// matchesTypeLegacy is the pre-existing substring rule, retained only for
// entries tagged legacy: true so older configuration documents keep
// working without silently changing match semantics for everyone else.
func matchesTypeLegacy(configured, queried string) bool {
	return strings.Contains(queried, configured)
}

// AnnotationSet is an exact-match-only set of annotation FQNs.
type AnnotationSet map[string]bool

// Has reports exact membership.
func (s AnnotationSet) Has(fqn string) bool { return s[fqn] }

// Catalogue is the fully merged, ready-to-query leaf-type vocabulary.
type Catalogue struct {
	SingletonAnnotations AnnotationSet
	SessionAnnotations   AnnotationSet
	RequestAnnotations   AnnotationSet
	EndpointAnnotations  AnnotationSet

	ExternalStateTypes     TypeSet
	ServiceClientTypes     TypeSet
	GRPCTypes              TypeSet
	ResilienceTypes        TypeSet
	CacheTypes             TypeSet
	MutableCollectionTypes TypeSet
	ModuleTypes            TypeSet
	ThreadLocalTypes       TypeSet
	FileStateTypes         TypeSet
	SafeTypes              TypeSet
	MetricTypes            TypeSet

	// Exclude holds the compiled regular expressions; entries that failed
	// to compile were dropped and reported via BadPatterns instead.
	Exclude     []*regexp.Regexp
	BadPatterns []BadPattern
}

// BadPattern records one exclude-regex entry that failed to compile
// (spec.md §7 BadExcludePattern: "warned and dropped, never fatal").
type BadPattern struct {
	Pattern string
	Err     error
}

// IsExcluded reports whether fqn matches any compiled exclude pattern.
func (c *Catalogue) IsExcluded(fqn string) bool {
	for _, re := range c.Exclude {
		if re.MatchString(fqn) {
			return true
		}
	}
	return false
}

// IsModuleType reports whether fqn names an AbstractModule-like base type,
// used by internal/binding to recognise configure-style DI modules.
func (c *Catalogue) IsModuleType(fqn string) bool {
	return c.ModuleTypes.Matches(fqn)
}

// IsSafeType reports whether fqn is declared safe regardless of leaf
// category membership — a carve-out for types that would otherwise match
// a leaf category's prefix (e.g. an in-memory test double).
func (c *Catalogue) IsSafeType(fqn string) bool {
	return c.SafeTypes.Matches(fqn)
}
