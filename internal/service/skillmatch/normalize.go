// Package skillmatch detects taxonomy skills in free text.
//
// Matching is Unicode aware: a word character is a letter, a number or an
// underscore, and every comparison happens on the lowercased, NFKC-folded
// text produced by Prepare.
package skillmatch

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/pkg/textx"
)

// Text is a syllabus prepared for matching.
type Text struct {
	// Lower is the sanitized, NFKC-folded, lowercased text.
	Lower string
	// Words is the set of whole words after punctuation was replaced by spaces.
	Words map[string]struct{}
	// Stream is Lower without punctuation and without whitespace.
	Stream string
}

// Prepare normalizes raw once so every matcher sees the same view of it.
func Prepare(raw string) Text {
	lower := strings.ToLower(textx.Normalize(raw))
	spaced := punctToSpace(lower)
	fields := strings.Fields(spaced)
	words := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		words[f] = struct{}{}
	}
	return Text{
		Lower:  lower,
		Words:  words,
		Stream: strings.Join(fields, ""),
	}
}

// Empty reports whether there is nothing to match against.
func (t Text) Empty() bool { return strings.TrimSpace(t.Lower) == "" }

// HasWord reports whether w is one of the whole words of the text.
func (t Text) HasWord(w string) bool {
	_, ok := t.Words[w]
	return ok
}

// ContainsBounded reports whether needle occurs in the text with a word
// boundary on both sides, using the same rule as a regexp \b.
func (t Text) ContainsBounded(needle string) bool {
	if needle == "" {
		return false
	}
	hay := t.Lower
	for from := 0; from <= len(hay)-len(needle); {
		i := strings.Index(hay[from:], needle)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(needle)
		if boundaryAt(hay, start) && boundaryAt(hay, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(hay[start:])
		from = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// boundaryAt reports whether byte offset i of s sits between a word and a
// non-word rune (text edges count as non-word).
func boundaryAt(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

// punctToSpace replaces every rune that is neither a word rune nor
// whitespace with a space.
func punctToSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
}

// stripNonWord drops every non-word rune, whitespace included.
func stripNonWord(s string) string {
	return strings.Map(func(r rune) rune {
		if isWordRune(r) {
			return r
		}
		return -1
	}, s)
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
