package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

func writeTaxonomy(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "skills.csv")
	csv := "Role,Skill\nData Analyst,\"Python, SQL, Excel\"\nWeb Developer,HTML / CSS / JavaScript\n"
	require.NoError(t, os.WriteFile(p, []byte(csv), 0o600))
	return p
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("OPENAI_API_KEY", "")
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSkillcheck_Stdin(t *testing.T) {
	out, err := execute(t, "Learn HTML and CSS basics", "--taxonomy", writeTaxonomy(t))
	require.NoError(t, err)

	var res domain.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"HTML", "CSS"}, res.MatchedSkills["Web Developer"])
	assert.Equal(t, []string{"JavaScript"}, res.MissingSkills["Web Developer"])
	assert.Len(t, res.Roadmap["Web Developer"]["JavaScript"], 3)
}

func TestSkillcheck_FileAndRole(t *testing.T) {
	syl := filepath.Join(t.TempDir(), "syllabus.txt")
	require.NoError(t, os.WriteFile(syl, []byte("Python for data work, SQL queries"), 0o600))

	out, err := execute(t, "", "--taxonomy", writeTaxonomy(t), "--role", "data analyst", "--no-agent", syl)
	require.NoError(t, err)

	var res domain.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, map[string][]string{"Data Analyst": {"Python", "SQL"}}, res.MatchedSkills)
	assert.Equal(t, map[string][]string{"Data Analyst": {"Excel"}}, res.MissingSkills)
}

func TestSkillcheck_Errors(t *testing.T) {
	tax := writeTaxonomy(t)

	_, err := execute(t, "   ", "--taxonomy", tax)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = execute(t, "SQL", "--taxonomy", tax, "--role", "Astronaut")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = execute(t, "", "--taxonomy", tax, filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	_, err = execute(t, "", "a.txt", "b.txt")
	assert.Error(t, err)
}
