package connector

import "strings"

// CleanColumnName normalizes an arbitrary column or identifier name into a
// SQL-safe identifier: lower-cased, spaces folded to underscores, every
// other rune outside [a-z0-9_] stripped, and a leading underscore added
// when the result would start with a digit. Idempotent: cleaning a clean
// name returns it unchanged.
func CleanColumnName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out != "" && out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	return out
}

// CleanColumnNames sanitizes every name, preserving order.
func CleanColumnNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, CleanColumnName(name))
	}
	return out
}
