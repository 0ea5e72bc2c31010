package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/observability"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

func TestRecoverer(t *testing.T) {
	h := Recoverer()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"INTERNAL","message":"internal error","details":null}}`, rec.Body.String())
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = observability.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	id := rec.Header().Get("X-Request-Id")
	require.Len(t, id, 26, "ULID")
	assert.Equal(t, id, seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "client-supplied")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "client-supplied", rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "client-supplied", seen)
}

func TestNewReqID_Monotonic(t *testing.T) {
	a, b := newReqID(), newReqID()
	assert.Less(t, a, b)
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
}

func TestTimeoutMiddleware(t *testing.T) {
	h := TimeoutMiddleware(10 * time.Millisecond)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "UPSTREAM_TIMEOUT")
}

func TestAccessLog_LevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	lg := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := AccessLog()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) }))

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req = req.WithContext(observability.ContextWithLogger(req.Context(), lg))
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"msg":"http_access"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"path":"/missing"`)
}

func TestTraceMiddleware_PassesThrough(t *testing.T) {
	h := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: x", domain.ErrInvalidArgument), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{fmt.Errorf("%w: x", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: x", domain.ErrUnsupportedMedia), http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE"},
		{fmt.Errorf("%w: x", domain.ErrPayloadTooLarge), http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{fmt.Errorf("%w: x", domain.ErrUpstreamTimeout), http.StatusServiceUnavailable, "UPSTREAM_TIMEOUT"},
		{fmt.Errorf("%w: x", domain.ErrUpstreamRateLimit), http.StatusServiceUnavailable, "UPSTREAM_RATE_LIMIT"},
		{errors.New("db password leaked"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err, nil)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"`+tt.code+`"`)
			assert.NotContains(t, rec.Body.String(), "leaked")
		})
	}
}

func TestWriteErrorMessage_Override(t *testing.T) {
	rec := httptest.NewRecorder()
	writeErrorMessage(rec, nil, domain.ErrInvalidArgument, syllabusRequiredMsg, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"INVALID_ARGUMENT","message":"Syllabus text is required","details":null}}`, rec.Body.String())
}

func TestAllowedMIMEFor(t *testing.T) {
	assert.True(t, allowedMIMEFor("text/plain; charset=utf-8", "a.txt"))
	assert.True(t, allowedMIMEFor("text/html; charset=utf-8", "a.TXT"))
	assert.True(t, allowedMIMEFor("application/pdf", "a.pdf"))
	assert.True(t, allowedMIMEFor("application/vnd.openxmlformats-officedocument.wordprocessingml.document", "a.docx"))
	assert.True(t, allowedMIMEFor("application/zip", "a.docx"))
	assert.False(t, allowedMIMEFor("text/plain", "a.pdf"))
	assert.False(t, allowedMIMEFor("application/zip", "a.txt"))
	assert.False(t, allowedMIMEFor("text/plain", "a.md"))
}

func TestValidation(t *testing.T) {
	err := getValidator().Struct(mapSkillsRequest{Syllabus: " \t"})
	require.Error(t, err)
	d := validationDetails(err)
	assert.True(t, syllabusMissing(d))

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	err = getValidator().Struct(mapSkillsRequest{Syllabus: "ok", Role: string(long)})
	require.Error(t, err)
	d = validationDetails(err)
	assert.False(t, syllabusMissing(d))
	assert.Equal(t, "max", d["role"])

	assert.NoError(t, getValidator().Struct(mapSkillsRequest{Syllabus: "ok"}))
}
