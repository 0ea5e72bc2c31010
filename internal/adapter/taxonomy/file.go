package taxonomy

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

// FileSource reads the taxonomy from a local file.
type FileSource struct {
	Path string
}

// Load implements domain.TaxonomySource.
func (s FileSource) Load(ctx context.Context) (domain.Taxonomy, error) {
	if err := ctx.Err(); err != nil {
		return domain.Taxonomy{}, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return domain.Taxonomy{}, fmt.Errorf("op=taxonomy.FileSource.Load: %w", err)
	}
	tax, err := Parse(s.Path, data)
	if err != nil {
		return domain.Taxonomy{}, fmt.Errorf("op=taxonomy.FileSource.Load: %w", err)
	}
	return tax, nil
}

// Parse decodes data according to the extension of name
// (.xlsx, .csv, .yaml or .yml).
func Parse(name string, data []byte) (domain.Taxonomy, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		return parseCSV(data)
	case ".xlsx":
		return parseXLSX(data)
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return domain.Taxonomy{}, fmt.Errorf("%w: taxonomy format %q", domain.ErrUnsupportedMedia, ext)
	}
}

func parseCSV(data []byte) (domain.Taxonomy, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return domain.Taxonomy{}, fmt.Errorf("%w: csv: %v", domain.ErrInvalidArgument, err)
	}
	return FromRows(rows), nil
}

// parseXLSX reads the first sheet of the workbook.
func parseXLSX(data []byte) (domain.Taxonomy, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return domain.Taxonomy{}, fmt.Errorf("%w: xlsx: %v", domain.ErrInvalidArgument, err)
	}
	defer func() { _ = f.Close() }()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.Taxonomy{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return domain.Taxonomy{}, fmt.Errorf("%w: xlsx sheet %q: %v", domain.ErrInvalidArgument, sheets[0], err)
	}
	return FromRows(rows), nil
}

// parseYAML accepts either a mapping of role to skills (a list or a
// separated string) or a list of {role, skill|skills} records.
func parseYAML(data []byte) (domain.Taxonomy, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Taxonomy{}, fmt.Errorf("%w: yaml: %v", domain.ErrInvalidArgument, err)
	}
	if len(doc.Content) == 0 {
		return domain.Taxonomy{}, nil
	}
	root := doc.Content[0]
	b := domain.NewTaxonomyBuilder()
	switch root.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			role := root.Content[i].Value
			b.AddRole(role)
			for _, s := range yamlSkills(root.Content[i+1]) {
				b.Add(role, s)
			}
		}
	case yaml.SequenceNode:
		for _, item := range root.Content {
			var rec struct {
				Role   string    `yaml:"role"`
				Skill  yaml.Node `yaml:"skill"`
				Skills yaml.Node `yaml:"skills"`
			}
			if err := item.Decode(&rec); err != nil {
				return domain.Taxonomy{}, fmt.Errorf("%w: yaml record at line %d: %v", domain.ErrInvalidArgument, item.Line, err)
			}
			for _, n := range []*yaml.Node{&rec.Skill, &rec.Skills} {
				for _, s := range yamlSkills(n) {
					b.Add(rec.Role, s)
				}
			}
		}
	default:
		return domain.Taxonomy{}, fmt.Errorf("%w: yaml taxonomy must be a mapping or a list", domain.ErrInvalidArgument)
	}
	return b.Build(), nil
}

func yamlSkills(n *yaml.Node) []string {
	switch n.Kind {
	case yaml.ScalarNode:
		return SplitSkills(n.Value)
	case yaml.SequenceNode:
		var out []string
		for _, c := range n.Content {
			out = append(out, yamlSkills(c)...)
		}
		return out
	default:
		return nil
	}
}
