package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

func TestTaxonomyBuilder_OrderAndDedupe(t *testing.T) {
	t.Parallel()
	b := domain.NewTaxonomyBuilder()
	b.Add("Data Scientist", "Python")
	b.Add("Web Developer", "JavaScript")
	b.Add("Data Scientist", "SQL")
	b.Add("Data Scientist", "Python")
	b.Add(" Data Scientist ", " Statistics ")
	b.Add("", "Go")
	b.Add("Web Developer", "  ")
	tax := b.Build()

	assert.Equal(t, []string{"Data Scientist", "Web Developer"}, tax.Roles())
	assert.Equal(t, []string{"Python", "SQL", "Statistics"}, tax.Skills("Data Scientist"))
	assert.Equal(t, []string{"JavaScript"}, tax.Skills("Web Developer"))
	assert.Equal(t, 2, tax.Len())
}

func TestTaxonomy_Universe(t *testing.T) {
	t.Parallel()
	tax := domain.NewTaxonomy([]domain.RoleSkills{
		{Role: "A", Skills: []string{"Python", "SQL"}},
		{Role: "B", Skills: []string{"SQL", "Docker", "python"}},
	})
	assert.Equal(t, []string{"Python", "SQL", "Docker", "python"}, tax.Universe())
}

func TestTaxonomy_ZeroValue(t *testing.T) {
	t.Parallel()
	var tax domain.Taxonomy
	assert.Equal(t, 0, tax.Len())
	assert.Empty(t, tax.Roles())
	assert.Empty(t, tax.Universe())
	assert.Nil(t, tax.Skills("anything"))
	_, ok := tax.LookupRole("anything")
	assert.False(t, ok)
}

func TestTaxonomy_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()
	tax := domain.NewTaxonomy([]domain.RoleSkills{{Role: "A", Skills: []string{"Go"}}})
	s := tax.Skills("A")
	s[0] = "mutated"
	r := tax.Roles()
	r[0] = "mutated"
	assert.Equal(t, []string{"Go"}, tax.Skills("A"))
	assert.Equal(t, []string{"A"}, tax.Roles())
}

func TestTaxonomy_RoleWithoutSkills(t *testing.T) {
	t.Parallel()
	tax := domain.NewTaxonomy([]domain.RoleSkills{{Role: "Empty"}})
	require.Equal(t, []string{"Empty"}, tax.Roles())
	assert.NotNil(t, tax.Skills("Empty"))
	assert.Empty(t, tax.Skills("Empty"))
}

func TestTaxonomy_LookupRoleAndOnly(t *testing.T) {
	t.Parallel()
	tax := domain.NewTaxonomy([]domain.RoleSkills{
		{Role: "Data Scientist", Skills: []string{"Python"}},
		{Role: "Web Developer", Skills: []string{"HTML"}},
	})
	role, ok := tax.LookupRole("data scientist")
	require.True(t, ok)
	assert.Equal(t, "Data Scientist", role)

	only := tax.Only(role)
	assert.Equal(t, []string{"Data Scientist"}, only.Roles())
	assert.Equal(t, []string{"Python"}, only.Universe())

	assert.Equal(t, 0, tax.Only("Nope").Len())
}
