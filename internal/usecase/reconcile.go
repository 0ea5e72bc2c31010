package usecase

import (
	"strings"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

// Reconcile splits every role's required skills into matched and missing
// according to detected, compared case-insensitively. Each role appears in
// the result, and both lists keep the role's original order.
func Reconcile(detected []string, tax domain.Taxonomy) domain.Reconciliation {
	have := make(map[string]struct{}, len(detected))
	for _, s := range detected {
		have[strings.ToLower(s)] = struct{}{}
	}
	out := make(domain.Reconciliation, tax.Len())
	for _, role := range tax.Roles() {
		m := domain.RoleMapping{Matched: []string{}, Missing: []string{}}
		for _, skill := range tax.Skills(role) {
			if _, ok := have[strings.ToLower(skill)]; ok {
				m.Matched = append(m.Matched, skill)
			} else {
				m.Missing = append(m.Missing, skill)
			}
		}
		out[role] = m
	}
	return out
}
