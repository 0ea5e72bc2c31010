package skillmatch

import (
	"sort"
	"strings"
)

// Vocabulary is the skill universe of a taxonomy with case-insensitive
// lookup. When two skills differ only by case the first one seen is the
// canonical form.
type Vocabulary struct {
	skills []string
	lower  map[string]string
}

// NewVocabulary indexes skills, keeping their order.
func NewVocabulary(skills []string) *Vocabulary {
	v := &Vocabulary{lower: make(map[string]string, len(skills))}
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		v.skills = append(v.skills, s)
		k := strings.ToLower(s)
		if _, ok := v.lower[k]; !ok {
			v.lower[k] = s
		}
	}
	return v
}

// Len returns the number of distinct skill strings.
func (v *Vocabulary) Len() int { return len(v.skills) }

// Skills returns the skills in first-seen order.
func (v *Vocabulary) Skills() []string { return append([]string(nil), v.skills...) }

// Sorted returns the skills in lexical order.
func (v *Vocabulary) Sorted() []string {
	out := v.Skills()
	sort.Strings(out)
	return out
}

// Canonical returns the taxonomy spelling of name, matched case-insensitively.
func (v *Vocabulary) Canonical(name string) (string, bool) {
	s, ok := v.lower[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// Filter keeps the names that belong to the vocabulary, returned in
// canonical spelling and deduplicated case-insensitively. Input order is kept.
func (v *Vocabulary) Filter(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		c, ok := v.Canonical(n)
		if !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
