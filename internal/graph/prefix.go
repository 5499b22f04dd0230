package graph

import (
	"strings"

	"github.com/state-scan/state-scan/internal/model"
)

const packagePrefixThreshold = 0.8

// DetectPackagePrefix implements spec.md §4.2 step 5: the longest dotted
// prefix shared by at least 80% of project-local class FQNs. Returns ""
// if the graph has no project-local classes.
func DetectPackagePrefix(g *model.ClassGraph) string {
	locals := g.ProjectLocal()
	if len(locals) == 0 {
		return ""
	}

	counts := make(map[string]int)
	for _, c := range locals {
		for _, prefix := range dottedPrefixes(c.FQN) {
			counts[prefix]++
		}
	}

	total := float64(len(locals))
	best := ""
	bestDepth := -1
	for prefix, count := range counts {
		if float64(count)/total < packagePrefixThreshold {
			continue
		}
		depth := strings.Count(prefix, ".")
		if depth > bestDepth {
			best, bestDepth = prefix, depth
		}
	}
	return best
}

// dottedPrefixes returns every non-empty dotted prefix of fqn's package,
// the package itself included (the FQN's own simple class name is never a
// prefix).
func dottedPrefixes(fqn string) []string {
	lastDot := strings.LastIndex(fqn, ".")
	if lastDot < 0 {
		return nil
	}
	pkg := fqn[:lastDot]
	parts := strings.Split(pkg, ".")

	out := make([]string, 0, len(parts))
	cur := parts[0]
	out = append(out, cur)
	for _, p := range parts[1:] {
		cur = cur + "." + p
		out = append(out, cur)
	}
	return out
}
