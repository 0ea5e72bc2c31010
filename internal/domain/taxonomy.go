package domain

import "strings"

// Taxonomy is the read-only role -> required skills reference data.
// The zero value is an empty taxonomy. Accessors return copies so a
// Taxonomy can be shared across goroutines without locking.
type Taxonomy struct {
	roles  []string
	skills map[string][]string
}

// TaxonomyBuilder accumulates role/skill pairs in first-seen order.
type TaxonomyBuilder struct {
	roles  []string
	skills map[string][]string
	seen   map[string]map[string]struct{}
}

// NewTaxonomyBuilder returns an empty builder.
func NewTaxonomyBuilder() *TaxonomyBuilder {
	return &TaxonomyBuilder{
		skills: make(map[string][]string),
		seen:   make(map[string]map[string]struct{}),
	}
}

// AddRole registers a role even if it ends up with no skills.
func (b *TaxonomyBuilder) AddRole(role string) {
	role = strings.TrimSpace(role)
	if role == "" {
		return
	}
	if _, ok := b.seen[role]; ok {
		return
	}
	b.roles = append(b.roles, role)
	b.seen[role] = make(map[string]struct{})
	b.skills[role] = nil
}

// Add appends skill to role unless the role already lists it.
// Blank roles or skills are ignored.
func (b *TaxonomyBuilder) Add(role, skill string) {
	role = strings.TrimSpace(role)
	skill = strings.TrimSpace(skill)
	if role == "" || skill == "" {
		return
	}
	b.AddRole(role)
	if _, dup := b.seen[role][skill]; dup {
		return
	}
	b.seen[role][skill] = struct{}{}
	b.skills[role] = append(b.skills[role], skill)
}

// Build freezes the accumulated data into a Taxonomy.
func (b *TaxonomyBuilder) Build() Taxonomy {
	t := Taxonomy{
		roles:  append([]string(nil), b.roles...),
		skills: make(map[string][]string, len(b.skills)),
	}
	for role, list := range b.skills {
		t.skills[role] = append([]string(nil), list...)
	}
	return t
}

// NewTaxonomy builds a Taxonomy from roles in the given order.
func NewTaxonomy(roles []RoleSkills) Taxonomy {
	b := NewTaxonomyBuilder()
	for _, r := range roles {
		b.AddRole(r.Role)
		for _, s := range r.Skills {
			b.Add(r.Role, s)
		}
	}
	return b.Build()
}

// Len returns the number of roles.
func (t Taxonomy) Len() int { return len(t.roles) }

// Roles returns role names in load order.
func (t Taxonomy) Roles() []string { return append([]string(nil), t.roles...) }

// Skills returns the required skills of role, or nil when the role is unknown.
func (t Taxonomy) Skills(role string) []string {
	list, ok := t.skills[role]
	if !ok {
		return nil
	}
	return append([]string{}, list...)
}

// LookupRole resolves a role name case-insensitively.
func (t Taxonomy) LookupRole(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if _, ok := t.skills[name]; ok {
		return name, true
	}
	for _, r := range t.roles {
		if strings.EqualFold(r, name) {
			return r, true
		}
	}
	return "", false
}

// RoleSkills returns every role with its skills in load order.
func (t Taxonomy) RoleSkills() []RoleSkills {
	out := make([]RoleSkills, 0, len(t.roles))
	for _, r := range t.roles {
		out = append(out, RoleSkills{Role: r, Skills: t.Skills(r)})
	}
	return out
}

// Universe returns the distinct skill names across all roles in first-seen order.
func (t Taxonomy) Universe() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t.roles {
		for _, s := range t.skills[r] {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// Only returns a taxonomy restricted to the given role.
func (t Taxonomy) Only(role string) Taxonomy {
	list, ok := t.skills[role]
	if !ok {
		return Taxonomy{}
	}
	return Taxonomy{
		roles:  []string{role},
		skills: map[string][]string{role: append([]string(nil), list...)},
	}
}
