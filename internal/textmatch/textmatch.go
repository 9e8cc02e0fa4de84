// Package textmatch compares rendered text the way a reader sees it.
package textmatch

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize converts s to NFC and collapses runs of whitespace into single
// spaces, trimming both ends. Rendered text often carries newlines, tabs and
// non-breaking spaces that markup introduces around labels.
func Normalize(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Contains reports whether the normalized haystack contains the normalized needle.
func Contains(haystack, needle string) bool {
	return strings.Contains(Normalize(haystack), Normalize(needle))
}

// FirstContaining returns the index of the first text containing needle, or -1.
func FirstContaining(texts []string, needle string) int {
	for i, text := range texts {
		if Contains(text, needle) {
			return i
		}
	}
	return -1
}

// CountContaining returns how many texts contain needle.
func CountContaining(texts []string, needle string) int {
	n := 0
	for _, text := range texts {
		if Contains(text, needle) {
			n++
		}
	}
	return n
}
