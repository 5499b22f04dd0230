package scan

import "strings"

// globToRegex converts a class-FQN glob (spec.md §6's --exclude flag) into
// an anchored regular expression: '*' becomes '.*', '?' becomes '.', every
// other regex metacharacter is escaped literally so a dotted package name
// like "com.example.*Impl" matches only on the wildcard, not on every
// single character via an unescaped '.'.
func globToRegex(glob string) string {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		case '.', '+', '(', ')', '[', ']', '{', '}', '^', '$', '|', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('$')
	return b.String()
}
