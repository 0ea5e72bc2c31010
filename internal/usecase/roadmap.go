package usecase

import (
	"fmt"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

// RoadmapSteps returns the learning steps suggested for one missing skill.
func RoadmapSteps(skill string) []string {
	return []string{
		fmt.Sprintf("Learn basics of %s", skill),
		fmt.Sprintf("Take online tutorial/course for %s", skill),
		fmt.Sprintf("Build mini project involving %s", skill),
	}
}

// BuildRoadmap emits RoadmapSteps for every missing skill of every role.
// Roles without missing skills map to an empty entry.
func BuildRoadmap(rec domain.Reconciliation) domain.Roadmap {
	out := make(domain.Roadmap, len(rec))
	for role, m := range rec {
		steps := make(map[string][]string, len(m.Missing))
		for _, skill := range m.Missing {
			steps[skill] = RoadmapSteps(skill)
		}
		out[role] = steps
	}
	return out
}
