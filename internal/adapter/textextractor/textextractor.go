// Package textextractor holds helpers shared by the syllabus document extractors.
package textextractor

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

// AllowAbsPathsEnv lifts the temp-dir restriction on ReadUpload (tests only).
const AllowAbsPathsEnv = "EXTRACT_ALLOW_ABSPATHS"

// ReadUpload reads an uploaded file. Paths must resolve inside the system
// temp dir or the working directory unless AllowAbsPathsEnv is "1".
func ReadUpload(path string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	abs = filepath.Clean(abs)
	if os.Getenv(AllowAbsPathsEnv) != "1" && !within(abs, os.TempDir()) && !within(abs, workDir()) {
		return nil, fmt.Errorf("disallowed path: %s", abs)
	}
	return os.ReadFile(abs) // #nosec G304 -- confined above
}

func workDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

func within(abs, base string) bool {
	if base == "" {
		return false
	}
	base = filepath.Clean(base)
	return abs == base || strings.HasPrefix(abs, base+string(os.PathSeparator))
}

// ContentTypeFromExt maps a file extension to the MIME type sent upstream.
func ContentTypeFromExt(ext string) string {
	switch ext = strings.ToLower(ext); ext {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	case "", ".":
		return ""
	default:
		return mime.TypeByExtension(ext)
	}
}

// Fallback tries Primary and, if it fails, Secondary.
type Fallback struct {
	Primary   domain.TextExtractor
	Secondary domain.TextExtractor
}

// ExtractPath implements domain.TextExtractor.
func (f Fallback) ExtractPath(ctx context.Context, fileName, path string) (string, error) {
	if f.Primary == nil {
		return f.Secondary.ExtractPath(ctx, fileName, path)
	}
	text, err := f.Primary.ExtractPath(ctx, fileName, path)
	if err == nil || f.Secondary == nil || ctx.Err() != nil {
		return text, err
	}
	slog.Default().WarnContext(ctx, "primary text extractor failed; using fallback",
		slog.String("file", fileName), slog.Any("error", err))
	return f.Secondary.ExtractPath(ctx, fileName, path)
}
