package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorConstants(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ErrInvalidArgument", ErrInvalidArgument, "invalid argument"},
		{"ErrNotFound", ErrNotFound, "not found"},
		{"ErrUnsupportedMedia", ErrUnsupportedMedia, "unsupported media type"},
		{"ErrPayloadTooLarge", ErrPayloadTooLarge, "payload too large"},
		{"ErrUpstreamTimeout", ErrUpstreamTimeout, "upstream timeout"},
		{"ErrUpstreamRateLimit", ErrUpstreamRateLimit, "upstream rate limit"},
		{"ErrInternal", ErrInternal, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("Expected %s to be %q, got %q", tt.name, tt.expected, tt.err.Error())
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{"direct", ErrInvalidArgument, ErrInvalidArgument, true},
		{"wrapped", fmt.Errorf("%w: syllabus is blank", ErrInvalidArgument), ErrInvalidArgument, true},
		{"double wrapped", fmt.Errorf("op=x: %w", fmt.Errorf("%w: role", ErrNotFound)), ErrNotFound, true},
		{"different", ErrNotFound, ErrInvalidArgument, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.expected {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.expected)
			}
		})
	}
}
