// Package util provides small helpers shared across the playback engine.
package util

import (
	"cmp"
	"strings"
)

// Clamp limits v to the inclusive range [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CleanCell normalizes a raw CSV cell: trims surrounding whitespace
// and one layer of double quotes, so `" 1.25 "` parses like `1.25`.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// NormalizeHeader lowercases a CSV header cell and strips whitespace
// so column matching is case- and padding-insensitive.
func NormalizeHeader(s string) string {
	return strings.ToLower(CleanCell(s))
}
