package skillmatch

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

//go:embed aliases.yaml
var defaultAliasesYAML []byte

// Alias maps an informal term to one or more canonical skill names.
type Alias struct {
	Term   string   `yaml:"term"`
	Skills []string `yaml:"skills"`
}

// Resolver maps alternate wording in text to taxonomy skills.
// It is immutable and safe for concurrent use.
type Resolver struct {
	aliases []Alias
}

// ParseAliases decodes a YAML alias list. Terms are lowercased; duplicate
// terms and aliases without skills are rejected.
func ParseAliases(data []byte) ([]Alias, error) {
	var raw []Alias
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode aliases: %v", domain.ErrInvalidArgument, err)
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]Alias, 0, len(raw))
	for i, a := range raw {
		term := strings.ToLower(strings.TrimSpace(a.Term))
		if term == "" {
			return nil, fmt.Errorf("%w: alias %d has no term", domain.ErrInvalidArgument, i)
		}
		if len(a.Skills) == 0 {
			return nil, fmt.Errorf("%w: alias %q has no skills", domain.ErrInvalidArgument, term)
		}
		if _, dup := seen[term]; dup {
			return nil, fmt.Errorf("%w: duplicate alias %q", domain.ErrInvalidArgument, term)
		}
		seen[term] = struct{}{}
		out = append(out, Alias{Term: term, Skills: append([]string(nil), a.Skills...)})
	}
	return out, nil
}

// NewResolver returns a resolver over aliases.
func NewResolver(aliases []Alias) *Resolver {
	return &Resolver{aliases: append([]Alias(nil), aliases...)}
}

var defaultResolver = sync.OnceValues(func() (*Resolver, error) {
	aliases, err := ParseAliases(defaultAliasesYAML)
	if err != nil {
		return nil, err
	}
	return NewResolver(aliases), nil
})

// DefaultResolver returns the resolver for the built-in alias table.
func DefaultResolver() (*Resolver, error) { return defaultResolver() }

// Len returns the number of aliases.
func (r *Resolver) Len() int { return len(r.aliases) }

// Resolve returns the vocabulary skills named by aliases found in text.
// An alias is found when it is one of the whole words of the text or
// occurs in the text between word boundaries; multi-word terms rely on
// the second check. Mapped skills missing from vocab are dropped.
func (r *Resolver) Resolve(text Text, vocab *Vocabulary) []string {
	if r == nil || text.Empty() || vocab == nil || vocab.Len() == 0 {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, a := range r.aliases {
		if !text.HasWord(a.Term) && !text.ContainsBounded(a.Term) {
			continue
		}
		for _, s := range a.Skills {
			c, ok := vocab.Canonical(s)
			if !ok {
				continue
			}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
