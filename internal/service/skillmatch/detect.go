package skillmatch

import (
	"context"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/pkg/textx"
)

// Detection is the detected skill set of one syllabus.
type Detection struct {
	// Skills holds canonical taxonomy spellings: the primary signal first,
	// then alias hits not already present.
	Skills []string
	// Source is domain.SourceAgent or domain.SourceKeyword.
	Source string
	// AliasHits counts skills contributed by the alias table alone.
	AliasHits int
}

// Detector combines the concept-mapping agent, the keyword extractor and
// the alias table. A nil agent means the agent is disabled.
type Detector struct {
	aliases *Resolver
	agent   domain.ConceptMapFunc
}

// NewDetector builds a Detector. aliases may be nil to disable alias resolution.
func NewDetector(aliases *Resolver, agent domain.ConceptMapFunc) *Detector {
	return &Detector{aliases: aliases, agent: agent}
}

// Detect returns the skills of tax mentioned or implied by raw.
// A non-empty agent answer replaces the keyword extractor; alias hits are
// always added on top.
func (d *Detector) Detect(ctx context.Context, raw string, tax domain.Taxonomy) Detection {
	vocab := NewVocabulary(tax.Universe())
	text := Prepare(raw)
	det := Detection{Source: domain.SourceKeyword}
	if text.Empty() || vocab.Len() == 0 {
		det.Skills = []string{}
		return det
	}

	var primary []string
	if d.agent != nil {
		mapped, ok := d.agent(ctx, domain.ConceptRequest{
			Text:       textx.Normalize(raw),
			Vocabulary: vocab.Sorted(),
			Roles:      tax.RoleSkills(),
		})
		if ok {
			primary = vocab.Filter(mapped)
		}
	}
	if len(primary) > 0 {
		det.Source = domain.SourceAgent
	} else {
		primary = ExtractKeywords(text, vocab)
	}

	seen := make(map[string]struct{}, len(primary))
	skills := make([]string, 0, len(primary))
	for _, s := range primary {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		skills = append(skills, s)
	}
	for _, s := range d.aliases.Resolve(text, vocab) {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		skills = append(skills, s)
		det.AliasHits++
	}
	det.Skills = skills
	return det
}
