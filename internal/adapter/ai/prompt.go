package ai

import (
	"fmt"
	"strings"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

// Role context limits shown to the model.
const (
	maxContextRoles  = 25
	maxContextSkills = 15
)

const promptTemplate = `You are a skill mapping agent for a taxonomy of %[1]d skills. Read the user's syllabus/course text and identify ANY skill-related concepts mentioned (technologies, tools, methods, domains, frameworks).
Then link each detected concept to one or more taxonomy skills below.

RULES:
- Use your full knowledge: synonyms, abbreviations, alternate tags, related terms for EVERY taxonomy skill.
- Map flexibly: dbms/mysql/postgresql/RDBMS -> databases, SQL; programming/coding/DSA -> Programming, DSA; ml/deep learning/neural nets -> Machine Learning, ML; stats/analytics -> statistics; excel/spreadsheets -> Excel; git/version control -> Git; etc. Apply this to ALL %[1]d skills.
- The user may share relative or alternate tags; link them to taxonomy skills.
- Return ONLY taxonomy skill names below, no new names.

TAXONOMY SKILLS:
%[2]s
%[3]s

USER SYLLABUS TEXT:
%[4]s

Return a JSON array of taxonomy skill names that are mentioned or implied. Use exact strings from the taxonomy list.
Example: ["databases", "SQL", "Programming", "DSA"]
Return [] if nothing matches. No explanation.`

// RoleContext renders at most 25 roles with at most 15 skills each.
// A role whose list was cut ends with "...".
func RoleContext(roles []domain.RoleSkills) string {
	if len(roles) == 0 {
		return ""
	}
	if len(roles) > maxContextRoles {
		roles = roles[:maxContextRoles]
	}
	var b strings.Builder
	b.WriteString("\nROLE-SKILL CONTEXT (for reference):")
	for _, r := range roles {
		skills := r.Skills
		suffix := ""
		if len(skills) > maxContextSkills {
			skills = skills[:maxContextSkills]
			suffix = "..."
		}
		fmt.Fprintf(&b, "\n- %s: %s%s", r.Role, strings.Join(skills, ", "), suffix)
	}
	return b.String()
}

// BuildPrompt renders the single user message sent to the provider.
// req.Vocabulary is expected to be sorted already.
func BuildPrompt(req domain.ConceptRequest) string {
	return render(req.Text, req.Vocabulary, RoleContext(req.Roles))
}

func render(text string, vocab []string, roleContext string) string {
	return fmt.Sprintf(promptTemplate, len(vocab), strings.Join(vocab, ", "), roleContext, text)
}

// FitPrompt renders the prompt under maxTokens as measured by count.
// The role context is dropped first, then the syllabus text is cut from the
// end. ok is false when even an empty syllabus does not fit.
func FitPrompt(req domain.ConceptRequest, maxTokens int, count func(string) int) (prompt string, ok bool) {
	full := BuildPrompt(req)
	if maxTokens <= 0 || count == nil || count(full) <= maxTokens {
		return full, true
	}

	bare := render(req.Text, req.Vocabulary, "")
	if count(bare) <= maxTokens {
		return bare, true
	}
	if count(render("", req.Vocabulary, "")) > maxTokens {
		return "", false
	}

	// Binary search on rune length of the kept text prefix.
	text := []rune(req.Text)
	lo, hi := 0, len(text)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if count(render(string(text[:mid]), req.Vocabulary, "")) <= maxTokens {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return render(string(text[:lo]), req.Vocabulary, ""), true
}
