// Package local extracts syllabus document text in-process, without a Tika server.
package local

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/textextractor"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/pkg/textx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeZIP  = "application/zip"
)

var (
	xmlParaEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTag     = regexp.MustCompile(`<[^>]+>`)
)

// Extractor reads .txt, .pdf and .docx files.
type Extractor struct{}

// New returns a local Extractor.
func New() Extractor { return Extractor{} }

// ExtractPath implements domain.TextExtractor.
func (Extractor) ExtractPath(ctx context.Context, fileName, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := textextractor.ReadUpload(path)
	if err != nil {
		return "", err
	}
	return Extract(fileName, data)
}

// Extract returns the text of data. The kind is taken from the sniffed
// content. A .docx whose zip entries hide the OOXML signature sniffs as a
// plain zip and is still read as a document.
func Extract(fileName string, data []byte) (string, error) {
	mt := mimetype.Detect(data)
	var (
		text string
		err  error
	)
	switch {
	case mt.Is(mimePDF):
		text, err = extractPDF(data)
	case mt.Is(mimeDOCX), mt.Is(mimeZIP) && strings.EqualFold(filepath.Ext(fileName), ".docx"):
		text, err = extractDOCX(data)
	case strings.HasPrefix(mt.String(), "text/"):
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedMedia, mt.String(), filepath.Ext(fileName))
	}
	if err != nil {
		return "", err
	}
	return textx.CollapseSpace(textx.SanitizeText(text)), nil
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()
	return docxXMLToText(doc.Editable().GetContent()), nil
}

// docxXMLToText flattens WordprocessingML into plain text.
func docxXMLToText(content string) string {
	content = xmlParaEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}
