// Package httpserver contains HTTP handlers and middleware.
//
// It exposes the syllabus mapping endpoints, the roles listing and the
// operational endpoints. Handlers translate HTTP to use case calls and map
// domain errors to the JSON error envelope.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorStatus maps a domain error to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE"
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"
	case errors.Is(err, domain.ErrUpstreamTimeout):
		return http.StatusServiceUnavailable, "UPSTREAM_TIMEOUT"
	case errors.Is(err, domain.ErrUpstreamRateLimit):
		return http.StatusServiceUnavailable, "UPSTREAM_RATE_LIMIT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error, details interface{}) {
	writeErrorMessage(w, r, err, "", details)
}

// writeErrorMessage is writeError with a caller-chosen message.
// Internal errors never echo err to the client.
func writeErrorMessage(w http.ResponseWriter, r *http.Request, err error, message string, details interface{}) {
	code, codeStr := errorStatus(err)
	if message == "" {
		message = err.Error()
		if code == http.StatusInternalServerError {
			message = "internal error"
		}
	}
	if code >= http.StatusInternalServerError && r != nil {
		LoggerFrom(r).Error("request failed", "error", err, "code", codeStr)
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: message, Details: details}})
}
