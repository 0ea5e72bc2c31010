package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/service/skillmatch"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/usecase"
)

func sampleTaxonomy() domain.Taxonomy {
	return domain.NewTaxonomy([]domain.RoleSkills{
		{Role: "Web Developer", Skills: []string{"HTML", "CSS", "JavaScript"}},
		{Role: "Data Analyst", Skills: []string{"SQL", "Excel", "databases"}},
		{Role: "Placeholder"},
	})
}

func TestReconcile_PartitionsInOrder(t *testing.T) {
	t.Parallel()
	rec := usecase.Reconcile([]string{"html"}, sampleTaxonomy())
	require.Len(t, rec, 3)
	assert.Equal(t, []string{"HTML"}, rec["Web Developer"].Matched)
	assert.Equal(t, []string{"CSS", "JavaScript"}, rec["Web Developer"].Missing)
	assert.Empty(t, rec["Data Analyst"].Matched)
	assert.Equal(t, []string{"SQL", "Excel", "databases"}, rec["Data Analyst"].Missing)
	assert.NotNil(t, rec["Placeholder"].Matched)
	assert.NotNil(t, rec["Placeholder"].Missing)
	assert.Empty(t, rec["Placeholder"].Matched)
	assert.Empty(t, rec["Placeholder"].Missing)
}

func TestReconcile_PartitionProperty(t *testing.T) {
	t.Parallel()
	tax := sampleTaxonomy()
	detectedSets := [][]string{nil, {"SQL"}, {"sql", "EXCEL", "css", "Unknown"}, {"HTML", "CSS", "JavaScript", "SQL", "Excel", "databases"}}
	for _, detected := range detectedSets {
		rec := usecase.Reconcile(detected, tax)
		for _, role := range tax.Roles() {
			required := tax.Skills(role)
			m := rec[role]
			assert.ElementsMatch(t, required, append(append([]string{}, m.Matched...), m.Missing...))
			for _, s := range m.Matched {
				assert.NotContains(t, m.Missing, s)
			}
			assert.Equal(t, filterOrder(required, m.Matched), m.Matched)
			assert.Equal(t, filterOrder(required, m.Missing), m.Missing)
		}
	}
}

func filterOrder(required, subset []string) []string {
	in := map[string]bool{}
	for _, s := range subset {
		in[s] = true
	}
	out := []string{}
	for _, s := range required {
		if in[s] {
			out = append(out, s)
		}
	}
	return out
}

func TestBuildRoadmap(t *testing.T) {
	t.Parallel()
	rec := usecase.Reconcile([]string{"HTML", "SQL", "Excel", "databases"}, sampleTaxonomy())
	rm := usecase.BuildRoadmap(rec)
	require.Len(t, rm, 3)
	require.Len(t, rm["Web Developer"], 2)
	for skill, steps := range rm["Web Developer"] {
		require.Len(t, steps, 3)
		for _, st := range steps {
			assert.Contains(t, st, skill)
		}
	}
	assert.Equal(t, []string{
		"Learn basics of CSS",
		"Take online tutorial/course for CSS",
		"Build mini project involving CSS",
	}, rm["Web Developer"]["CSS"])
	assert.NotNil(t, rm["Data Analyst"])
	assert.Empty(t, rm["Data Analyst"])
	assert.Empty(t, rm["Placeholder"])
}

func newService(agent domain.ConceptMapFunc) usecase.AnalyzeService {
	r, err := skillmatch.DefaultResolver()
	if err != nil {
		panic(err)
	}
	return usecase.NewAnalyzeService(sampleTaxonomy(), skillmatch.NewDetector(r, agent))
}

func TestAnalyze_BlankTextRejectedBeforeDetection(t *testing.T) {
	t.Parallel()
	called := false
	svc := newService(func(context.Context, domain.ConceptRequest) ([]string, bool) {
		called = true
		return nil, false
	})
	for _, in := range []string{"", "   ", "\n\t", "\u0000", "\x00\x7f\x1b "} {
		_, err := svc.Analyze(context.Background(), in, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	}
	assert.False(t, called)
}

func TestAnalyze_KeywordAndAlias(t *testing.T) {
	t.Parallel()
	svc := newService(nil)
	res, err := svc.Analyze(context.Background(), "We use MySQL and DBMS concepts with HTML pages", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"HTML"}, res.MatchedSkills["Web Developer"])
	assert.Equal(t, []string{"CSS", "JavaScript"}, res.MissingSkills["Web Developer"])
	assert.Equal(t, []string{"SQL", "databases"}, res.MatchedSkills["Data Analyst"])
	assert.Equal(t, []string{"Excel"}, res.MissingSkills["Data Analyst"])
	assert.Len(t, res.Roadmap["Web Developer"], 2)
	assert.Len(t, res.Roadmap["Data Analyst"], 1)
	assert.Contains(t, res.MatchedSkills, "Placeholder")
}

func TestAnalyze_AgentResultFiltered(t *testing.T) {
	t.Parallel()
	svc := newService(func(context.Context, domain.ConceptRequest) ([]string, bool) {
		return []string{"SQL", "InventedSkillXYZ"}, true
	})
	res, err := svc.Analyze(context.Background(), "relational modelling course", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"SQL"}, res.MatchedSkills["Data Analyst"])
	for _, matched := range res.MatchedSkills {
		assert.NotContains(t, matched, "InventedSkillXYZ")
	}
}

func TestAnalyze_RoleFilter(t *testing.T) {
	t.Parallel()
	svc := newService(nil)
	res, err := svc.Analyze(context.Background(), "html", "web developer")
	require.NoError(t, err)
	assert.Len(t, res.MatchedSkills, 1)
	assert.Len(t, res.MissingSkills, 1)
	assert.Len(t, res.Roadmap, 1)
	assert.Equal(t, []string{"HTML"}, res.MatchedSkills["Web Developer"])

	_, err = svc.Analyze(context.Background(), "html", "astronaut")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalyze_EmptyTaxonomy(t *testing.T) {
	t.Parallel()
	svc := usecase.NewAnalyzeService(domain.Taxonomy{}, nil)
	res, err := svc.Analyze(context.Background(), "Python", "")
	require.NoError(t, err)
	assert.NotNil(t, res.MatchedSkills)
	assert.Empty(t, res.MatchedSkills)
	assert.Empty(t, res.Roadmap)
	assert.Equal(t, []string{}, svc.Roles())
}

func TestAnalyze_Roles(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"Web Developer", "Data Analyst", "Placeholder"}, newService(nil).Roles())
}

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) ExtractPath(context.Context, string, string) (string, error) {
	return f.text, f.err
}

func TestDocumentService_Text(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	got, err := usecase.NewDocumentService(fakeExtractor{text: " Intro\x00 to SQL "}).Text(ctx, "course.PDF", "/tmp/x")
	require.NoError(t, err)
	assert.Equal(t, "Intro to SQL", got)

	_, err = usecase.NewDocumentService(fakeExtractor{text: "x"}).Text(ctx, "course.exe", "/tmp/x")
	assert.ErrorIs(t, err, domain.ErrUnsupportedMedia)

	_, err = usecase.NewDocumentService(fakeExtractor{text: " \n "}).Text(ctx, "course.txt", "/tmp/x")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	boom := errors.New("boom")
	_, err = usecase.NewDocumentService(fakeExtractor{err: boom}).Text(ctx, "course.docx", "/tmp/x")
	assert.ErrorIs(t, err, boom)

	_, err = usecase.NewDocumentService(nil).Text(ctx, "course.txt", "/tmp/x")
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestAllowedDocument(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]bool{"a.txt": true, "b.PDF": true, "c.docx": true, "d.doc": false, "e": false} {
		assert.Equal(t, want, usecase.AllowedDocument(name), name)
	}
}
