package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/taxonomy"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

// Querier is the subset of *pgxpool.Pool used by TaxonomyRepo.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// TaxonomyRepo loads role/skill rows from a table. Columns named role and
// skill are used when present, else the first two columns.
type TaxonomyRepo struct {
	Pool  Querier
	Table string
}

// NewTaxonomyRepo constructs a TaxonomyRepo.
func NewTaxonomyRepo(p Querier, table string) TaxonomyRepo {
	return TaxonomyRepo{Pool: p, Table: table}
}

// Load implements domain.TaxonomySource.
func (r TaxonomyRepo) Load(ctx context.Context) (domain.Taxonomy, error) {
	if r.Table == "" {
		return domain.Taxonomy{}, fmt.Errorf("%w: taxonomy table name", domain.ErrInvalidArgument)
	}
	q := "SELECT * FROM " + pgx.Identifier{r.Table}.Sanitize()
	rows, err := r.Pool.Query(ctx, q)
	if err != nil {
		return domain.Taxonomy{}, fmt.Errorf("op=postgres.TaxonomyRepo.Load: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}
	var table [][]string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return domain.Taxonomy{}, fmt.Errorf("op=postgres.TaxonomyRepo.Load: %w", err)
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			if v != nil {
				rec[i] = fmt.Sprint(v)
			}
		}
		table = append(table, rec)
	}
	if err := rows.Err(); err != nil {
		return domain.Taxonomy{}, fmt.Errorf("op=postgres.TaxonomyRepo.Load: %w", err)
	}
	return taxonomy.FromTable(header, table), nil
}
