package util

import "strings"

// MatchPrefix returns a SCAN/KEYS glob that matches exactly the keys starting
// with prefix. Glob metacharacters in prefix are escaped.
func MatchPrefix(prefix string) string {
	var b strings.Builder
	b.Grow(len(prefix) + 2)
	for i := 0; i < len(prefix); i++ {
		switch c := prefix[i]; c {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('*')
	return b.String()
}
