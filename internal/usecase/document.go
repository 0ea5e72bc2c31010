package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/pkg/textx"
)

// allowedDocExt lists the syllabus document extensions accepted for upload.
var allowedDocExt = map[string]bool{".txt": true, ".pdf": true, ".docx": true}

// AllowedDocument reports whether fileName has a supported extension.
func AllowedDocument(fileName string) bool {
	return allowedDocExt[strings.ToLower(filepath.Ext(fileName))]
}

// DocumentService turns an uploaded syllabus document into plain text.
type DocumentService struct {
	Extractor domain.TextExtractor
}

// NewDocumentService constructs a DocumentService with the given extractor.
func NewDocumentService(x domain.TextExtractor) DocumentService {
	return DocumentService{Extractor: x}
}

// Text extracts and sanitizes the text of the file stored at path.
func (s DocumentService) Text(ctx context.Context, fileName, path string) (string, error) {
	if !AllowedDocument(fileName) {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, filepath.Ext(fileName))
	}
	if s.Extractor == nil {
		return "", fmt.Errorf("%w: no text extractor configured", domain.ErrInternal)
	}
	raw, err := s.Extractor.ExtractPath(ctx, fileName, path)
	if err != nil {
		return "", err
	}
	text := textx.SanitizeText(raw)
	if text == "" {
		return "", fmt.Errorf("%w: no text could be extracted from %s", domain.ErrInvalidArgument, fileName)
	}
	return text, nil
}
