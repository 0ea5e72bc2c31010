// Package usecase contains application business logic services.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/observability"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/service/skillmatch"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/pkg/textx"
)

// AnalyzeService maps syllabus text onto the taxonomy.
type AnalyzeService struct {
	Taxonomy domain.Taxonomy
	Detector *skillmatch.Detector
}

// ReadinessCheck represents a single readiness probe result used by handlers.
type ReadinessCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Details string `json:"details,omitempty"`
}

// NewAnalyzeService constructs an AnalyzeService with its dependencies.
func NewAnalyzeService(tax domain.Taxonomy, d *skillmatch.Detector) AnalyzeService {
	return AnalyzeService{Taxonomy: tax, Detector: d}
}

// Roles returns the taxonomy role names in load order.
func (s AnalyzeService) Roles() []string {
	roles := s.Taxonomy.Roles()
	if roles == nil {
		return []string{}
	}
	return roles
}

// Analyze detects skills in text and reports matched, missing and roadmap
// per role. A non-empty role restricts the result to that role.
// Blank text fails with domain.ErrInvalidArgument before any detection runs;
// an unknown role fails with domain.ErrNotFound.
func (s AnalyzeService) Analyze(ctx context.Context, text, role string) (domain.Analysis, error) {
	if textx.IsBlank(text) {
		return domain.Analysis{}, fmt.Errorf("%w: syllabus text is required", domain.ErrInvalidArgument)
	}
	tax := s.Taxonomy
	if strings.TrimSpace(role) != "" {
		name, ok := tax.LookupRole(role)
		if !ok {
			return domain.Analysis{}, fmt.Errorf("%w: role %q", domain.ErrNotFound, role)
		}
		tax = tax.Only(name)
	}

	ctx, span := observability.StartSpan(ctx, "usecase.Analyze", trace.WithAttributes(
		attribute.Int("syllabus.length", len(text)),
		attribute.Int("taxonomy.roles", tax.Len()),
	))
	defer span.End()

	det := s.detector().Detect(ctx, text, tax)
	rec := Reconcile(det.Skills, tax)
	res := domain.Analysis{
		MatchedSkills: make(map[string][]string, len(rec)),
		MissingSkills: make(map[string][]string, len(rec)),
		Roadmap:       BuildRoadmap(rec),
	}
	for r, m := range rec {
		res.MatchedSkills[r] = m.Matched
		res.MissingSkills[r] = m.Missing
	}

	span.SetAttributes(
		attribute.String("detection.source", det.Source),
		attribute.Int("detection.skills", len(det.Skills)),
	)
	observability.ObserveAnalysis(det.Source, len(det.Skills))
	observability.LoggerFromContext(ctx).Debug("syllabus analyzed",
		slog.String("source", det.Source),
		slog.Int("detected", len(det.Skills)),
		slog.Int("alias_hits", det.AliasHits),
		slog.Int("roles", tax.Len()))
	return res, nil
}

func (s AnalyzeService) detector() *skillmatch.Detector {
	if s.Detector != nil {
		return s.Detector
	}
	return skillmatch.NewDetector(nil, nil)
}
