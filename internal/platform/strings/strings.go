// Package strings provides small string and slice helpers
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// FirstNonBlank returns the first value with non whitespace content, or ""
func FirstNonBlank(vals ...string) string {
	for _, v := range vals {
		if std.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// MustPrefix normalizes a mount path like /trends to a single leading slash
// and no trailing slash, panicking when nothing is left
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// Tail returns at most the last n bytes of s, trimmed, for error messages
func Tail(s string, n int) string {
	s = std.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

// Compact trims each value and drops blanks, keeping order
func Compact(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = std.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
