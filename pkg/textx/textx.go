// Package textx provides small text utilities used across the project.
package textx

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Normalize applies SanitizeText and folds compatibility forms (NFKC), so
// full-width letters and ligatures compare equal to their plain forms.
func Normalize(s string) string {
	return SanitizeText(norm.NFKC.String(s))
}

// IsBlank reports whether s has no content left after Normalize.
func IsBlank(s string) bool { return Normalize(s) == "" }

// CollapseSpace joins whitespace-separated fields with a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
