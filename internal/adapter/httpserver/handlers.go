package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/config"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/usecase"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/pkg/textx"
)

// Check is a named readiness probe.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Server aggregates handlers dependencies.
type Server struct {
	Cfg       config.Config
	Analyze   usecase.AnalyzeService
	Documents usecase.DocumentService
	Checks    []Check
	// OpenAPIPath is served on /openapi.yaml when set.
	OpenAPIPath string
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, analyze usecase.AnalyzeService, docs usecase.DocumentService, checks ...Check) *Server {
	return &Server{Cfg: cfg, Analyze: analyze, Documents: docs, Checks: checks, OpenAPIPath: "api/openapi.yaml"}
}

// acceptsJSON answers 406 when the client cannot take a JSON response.
func acceptsJSON(w http.ResponseWriter, r *http.Request) bool {
	a := r.Header.Get("Accept")
	if a == "" || strings.Contains(a, "*/*") || strings.Contains(a, "application/json") || strings.Contains(a, "application/*") {
		return true
	}
	writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{
		Code: "INVALID_ARGUMENT", Message: "not acceptable", Details: map[string]string{"accept": a},
	}})
	return false
}

// allowedMIMEFor checks sniffed content against the file extension.
func allowedMIMEFor(m, filename string) bool {
	m = strings.ToLower(m)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return strings.HasPrefix(m, "text/")
	case ".pdf":
		return strings.HasPrefix(m, "application/pdf")
	case ".docx":
		// some generators produce archives mimetype only recognises as zip
		return strings.HasPrefix(m, "application/vnd.openxmlformats-officedocument.wordprocessingml.document") ||
			strings.HasPrefix(m, "application/zip")
	default:
		return false
	}
}

// MapSkillsHandler analyses a JSON syllabus.
func (s *Server) MapSkillsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		var req mapSkillsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				writeError(w, r, fmt.Errorf("%w: body exceeds %d bytes", domain.ErrPayloadTooLarge, maxJSONBody), map[string]int64{"max_bytes": maxJSONBody})
			case errors.Is(err, io.EOF):
				writeErrorMessage(w, r, domain.ErrInvalidArgument, syllabusRequiredMsg, map[string]string{"syllabus": "nonblank"})
			default:
				writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			}
			return
		}
		if err := getValidator().Struct(req); err != nil {
			details := validationDetails(err)
			if syllabusMissing(details) {
				writeErrorMessage(w, r, domain.ErrInvalidArgument, syllabusRequiredMsg, details)
				return
			}
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), details)
			return
		}
		s.respondAnalysis(w, r, req.Syllabus, req.Role)
	}
}

// UploadHandler analyses an uploaded syllabus document (.txt, .pdf, .docx).
func (s *Server) UploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
			return
		}
		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		if maxBytes <= 0 {
			maxBytes = 5 << 20
		}
		tooLarge := func() {
			writeError(w, r, fmt.Errorf("%w: upload exceeds %d bytes", domain.ErrPayloadTooLarge, maxBytes), map[string]int64{"max_bytes": maxBytes})
		}
		// multipart framing needs some headroom over the file itself
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+64<<10)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) || strings.Contains(strings.ToLower(err.Error()), "too large") {
				tooLarge()
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		file, header, err := r.FormFile("syllabus")
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: syllabus file required", domain.ErrInvalidArgument), map[string]string{"field": "syllabus"})
			return
		}
		defer func() { _ = file.Close() }()
		if header.Size > maxBytes {
			tooLarge()
			return
		}

		if !usecase.AllowedDocument(header.Filename) {
			writeError(w, r, fmt.Errorf("%w: extension not allowed", domain.ErrUnsupportedMedia), map[string]string{"filename": header.Filename})
			return
		}
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: read upload: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if mt := mimetype.Detect(data); !allowedMIMEFor(mt.String(), header.Filename) {
			writeError(w, r, fmt.Errorf("%w: content does not match extension", domain.ErrUnsupportedMedia),
				map[string]string{"mime": mt.String(), "filename": header.Filename})
			return
		}

		text, err := s.extractUpload(r.Context(), header.Filename, data)
		if err != nil {
			writeError(w, r, err, map[string]string{"filename": header.Filename})
			return
		}
		s.respondAnalysis(w, r, text, r.FormValue("role"))
	}
}

// extractUpload spools data to a temp file and runs the document service on it.
func (s *Server) extractUpload(ctx context.Context, fileName string, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "syllabus-*"+strings.ToLower(filepath.Ext(fileName)))
	if err != nil {
		return "", fmt.Errorf("%w: temp file: %v", domain.ErrInternal, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("%w: temp file: %v", domain.ErrInternal, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: temp file: %v", domain.ErrInternal, err)
	}
	return s.Documents.Text(ctx, fileName, tmp.Name())
}

func (s *Server) respondAnalysis(w http.ResponseWriter, r *http.Request, text, role string) {
	res, err := s.Analyze.Analyze(r.Context(), text, role)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) && textx.IsBlank(text) {
			writeErrorMessage(w, r, err, syllabusRequiredMsg, nil)
			return
		}
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// RolesHandler lists the taxonomy roles in load order.
func (s *Server) RolesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"roles": s.Analyze.Roles()})
	}
}

// HealthzHandler reports liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler runs every readiness check and answers 503 if any fails.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]usecase.ReadinessCheck, 0, len(s.Checks))
		ok := true
		for _, c := range s.Checks {
			rc := usecase.ReadinessCheck{Name: c.Name, OK: true}
			if err := c.Probe(ctx); err != nil {
				rc.OK = false
				rc.Details = err.Error()
				ok = false
				LoggerFrom(r).Warn("readiness check failed", slog.String("check", c.Name), slog.Any("error", err))
			}
			checks = append(checks, rc)
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}

// OpenAPIServe serves the OpenAPI document if present.
func (s *Server) OpenAPIServe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := os.ReadFile(s.OpenAPIPath)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}
