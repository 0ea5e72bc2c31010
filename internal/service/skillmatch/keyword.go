package skillmatch

import "strings"

// minFuzzyLen is the rune length a skill must exceed before substring
// matching applies; shorter names ("C", "JS") only match as whole words.
const minFuzzyLen = 2

// ExtractKeywords returns the vocabulary skills mentioned in text.
//
// A skill matches when its lowercase form is longer than two runes and a
// substring of the text, when it is one of the text's whole words, or when
// its punctuation-free form is longer than two runes and occurs in the
// text's punctuation-free stream ("Node.js" matches "nodejs").
// Every case variant present in the vocabulary is reported.
func ExtractKeywords(text Text, vocab *Vocabulary) []string {
	if text.Empty() || vocab == nil {
		return nil
	}
	var out []string
	for _, skill := range vocab.skills {
		if keywordMatch(text, strings.ToLower(skill)) {
			out = append(out, skill)
		}
	}
	return out
}

func keywordMatch(text Text, lower string) bool {
	if runeLen(lower) > minFuzzyLen && strings.Contains(text.Lower, lower) {
		return true
	}
	if text.HasWord(lower) {
		return true
	}
	norm := stripNonWord(lower)
	return runeLen(norm) > minFuzzyLen && strings.Contains(text.Stream, norm)
}
