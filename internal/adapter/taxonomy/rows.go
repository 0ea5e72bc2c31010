// Package taxonomy loads the role -> skills reference table from files,
// object storage or Postgres.
package taxonomy

import (
	"regexp"
	"strings"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

// skillSeparator splits a skill cell on , / + & or the word "and".
var skillSeparator = regexp.MustCompile(`(?i)[,/+&]|\s+and\s+`)

// SplitSkills splits one cell into trimmed, non-empty skill names.
func SplitSkills(cell string) []string {
	parts := skillSeparator.Split(cell, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FromRows builds a taxonomy from a table whose first row is the header.
// Unrecognized header names fall back to the first two columns (role, skill).
func FromRows(rows [][]string) domain.Taxonomy {
	if len(rows) == 0 {
		return domain.Taxonomy{}
	}
	return FromTable(rows[0], rows[1:])
}

// FromTable builds a taxonomy from a table with a known header, such as
// database column names. Unrecognized headers fall back to the first two columns.
func FromTable(header []string, rows [][]string) domain.Taxonomy {
	roleIdx, skillIdx := headerColumns(header)
	w := width(rows)
	if len(header) > w {
		w = len(header)
	}
	return build(rows, roleIdx, skillIdx, w)
}

// headerColumns locates the role and skill columns. Missing ones default to
// the first two columns.
func headerColumns(header []string) (roleIdx, skillIdx int) {
	roleIdx, skillIdx = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "role", "roles":
			if roleIdx < 0 {
				roleIdx = i
			}
		case "skill", "skills":
			if skillIdx < 0 {
				skillIdx = i
			}
		}
	}
	switch {
	case roleIdx < 0 && skillIdx < 0:
		roleIdx, skillIdx = 0, 1
	case roleIdx < 0:
		roleIdx = firstOther(skillIdx)
	case skillIdx < 0:
		skillIdx = 1
		if roleIdx == 1 {
			skillIdx = 0
		}
	}
	return roleIdx, skillIdx
}

func firstOther(i int) int {
	if i == 0 {
		return 1
	}
	return 0
}

func width(rows [][]string) int {
	w := 0
	for _, r := range rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// build returns an empty taxonomy when the table has fewer than two columns.
func build(rows [][]string, roleIdx, skillIdx, w int) domain.Taxonomy {
	if w < 2 || roleIdx >= w || skillIdx >= w {
		return domain.Taxonomy{}
	}
	b := domain.NewTaxonomyBuilder()
	for _, r := range rows {
		if roleIdx >= len(r) || skillIdx >= len(r) {
			continue
		}
		role := strings.TrimSpace(r[roleIdx])
		if role == "" {
			continue
		}
		for _, s := range SplitSkills(r[skillIdx]) {
			b.Add(role, s)
		}
	}
	return b.Build()
}
