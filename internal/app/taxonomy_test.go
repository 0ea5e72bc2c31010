package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/taxonomy"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/config"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

func TestTaxonomySource_Dispatch(t *testing.T) {
	ctx := t.Context()

	src, closeSrc, err := TaxonomySource(ctx, config.Config{TaxonomySource: "data/skill_list.csv"})
	require.NoError(t, err)
	closeSrc()
	assert.Equal(t, taxonomy.FileSource{Path: "data/skill_list.csv"}, src)

	src, closeSrc, err = TaxonomySource(ctx, config.Config{
		TaxonomySource: "s3://bucket/skills/list.xlsx",
		AWSRegion:      "us-east-1",
		S3Endpoint:     "http://127.0.0.1:9000",
		S3AccessKey:    "minio",
		S3SecretKey:    "minio123",
	})
	require.NoError(t, err)
	closeSrc()
	s3src, ok := src.(taxonomy.S3Source)
	require.True(t, ok)
	assert.Equal(t, "bucket", s3src.Bucket)
	assert.Equal(t, "skills/list.xlsx", s3src.Key)

	_, _, err = TaxonomySource(ctx, config.Config{TaxonomySource: "s3://bucket"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, closeSrc, err = TaxonomySource(ctx, config.Config{TaxonomySource: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.NotNil(t, closeSrc)

	_, _, err = TaxonomySource(ctx, config.Config{TaxonomySource: "postgres://u:p@localhost:5432/db?connect_timeout=notanumber"})
	assert.Error(t, err)
}

func TestLoadTaxonomy_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "skills.csv")
	require.NoError(t, os.WriteFile(p, []byte("Role,Skill\nData Analyst,\"Python, SQL\"\nData Analyst,Excel\n"), 0o600))

	tax := LoadTaxonomy(t.Context(), config.Config{TaxonomySource: p})
	assert.Equal(t, []string{"Data Analyst"}, tax.Roles())
	assert.Equal(t, []string{"Python", "SQL", "Excel"}, tax.Skills("Data Analyst"))
}

func TestLoadTaxonomy_FailuresYieldEmpty(t *testing.T) {
	for _, src := range []string{"", "does/not/exist.csv", "s3://only-bucket"} {
		tax := LoadTaxonomy(t.Context(), config.Config{TaxonomySource: src})
		assert.Zero(t, tax.Len(), src)
	}
}

func TestRedactSource(t *testing.T) {
	assert.Equal(t, "postgres://***@db:5432/x", redactSource("postgres://user:secret@db:5432/x"))
	assert.Equal(t, "data/skill_list.csv", redactSource("data/skill_list.csv"))
	assert.Equal(t, "s3://bucket/key", redactSource("s3://bucket/key"))
}
