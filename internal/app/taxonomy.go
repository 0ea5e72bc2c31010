package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/observability"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/repo/postgres"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/taxonomy"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/config"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

// TaxonomySource picks the taxonomy source from cfg.TaxonomySource: a
// postgres:// DSN, an s3:// URL or a local file path. The returned closer
// releases connections opened for the source and is never nil.
func TaxonomySource(ctx context.Context, cfg config.Config) (domain.TaxonomySource, func(), error) {
	src := strings.TrimSpace(cfg.TaxonomySource)
	lower := strings.ToLower(src)
	switch {
	case src == "":
		return nil, func() {}, fmt.Errorf("%w: TAXONOMY_SOURCE is empty", domain.ErrInvalidArgument)
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		pool, err := postgres.NewPool(ctx, src)
		if err != nil {
			return nil, func() {}, fmt.Errorf("op=app.TaxonomySource.postgres: %w", err)
		}
		return postgres.NewTaxonomyRepo(pool, cfg.TaxonomyTable), pool.Close, nil
	case strings.HasPrefix(lower, "s3://"):
		bucket, key, err := taxonomy.ParseS3URL(src)
		if err != nil {
			return nil, func() {}, err
		}
		cli, err := taxonomy.NewS3Client(ctx, taxonomy.S3Options{
			Region:    cfg.AWSRegion,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, func() {}, err
		}
		return taxonomy.S3Source{Client: cli, Bucket: bucket, Key: key}, func() {}, nil
	default:
		return taxonomy.FileSource{Path: src}, func() {}, nil
	}
}

// LoadTaxonomy reads the configured taxonomy once. Any failure is logged and
// yields an empty taxonomy so the service still starts.
func LoadTaxonomy(ctx context.Context, cfg config.Config) domain.Taxonomy {
	ctx, span := observability.StartSpan(ctx, "taxonomy.load")
	defer span.End()

	src, closeSrc, err := TaxonomySource(ctx, cfg)
	defer closeSrc()
	if err != nil {
		slog.Error("taxonomy source unavailable; continuing with empty taxonomy",
			slog.String("source", redactSource(cfg.TaxonomySource)), slog.Any("error", err))
		return domain.Taxonomy{}
	}
	tax, err := src.Load(ctx)
	if err != nil {
		slog.Error("taxonomy load failed; continuing with empty taxonomy",
			slog.String("source", redactSource(cfg.TaxonomySource)), slog.Any("error", err))
		return domain.Taxonomy{}
	}
	if tax.Len() == 0 {
		slog.Warn("taxonomy has no roles", slog.String("source", redactSource(cfg.TaxonomySource)))
	}
	slog.Info("taxonomy loaded", slog.Int("roles", tax.Len()), slog.Int("skills", len(tax.Universe())))
	observability.SetTaxonomyRoles(tax.Len())
	return tax
}

// redactSource hides credentials embedded in a DSN.
func redactSource(src string) string {
	at := strings.LastIndex(src, "@")
	scheme := strings.Index(src, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return src
	}
	return src[:scheme+3] + "***" + src[at:]
}
