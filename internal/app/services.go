package app

import (
	"fmt"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/textextractor"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/textextractor/local"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/textextractor/tika"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/config"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/service/skillmatch"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/usecase"
)

// NewAnalyzeService builds the analysis use case over tax with the embedded
// alias table. agent may be nil.
func NewAnalyzeService(tax domain.Taxonomy, agent domain.ConceptMapFunc) (usecase.AnalyzeService, error) {
	aliases, err := skillmatch.DefaultResolver()
	if err != nil {
		return usecase.AnalyzeService{}, fmt.Errorf("op=app.NewAnalyzeService: %w", err)
	}
	return usecase.NewAnalyzeService(tax, skillmatch.NewDetector(aliases, agent)), nil
}

// NewDocumentService returns the upload text service. With TIKA_URL set, Tika
// is tried first and the local readers are the fallback; the Tika client is
// returned for readiness probing and is nil otherwise.
func NewDocumentService(cfg config.Config) (usecase.DocumentService, *tika.Client) {
	if cfg.TikaURL == "" {
		return usecase.NewDocumentService(local.New()), nil
	}
	tk := tika.New(cfg.TikaURL)
	return usecase.NewDocumentService(textextractor.Fallback{Primary: tk, Secondary: local.New()}), tk
}
