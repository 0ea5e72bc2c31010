package domain

import (
	"context"
	"errors"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedMedia  = errors.New("unsupported media type")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrInternal          = errors.New("internal error")
)

// Detection sources reported in metrics and logs.
const (
	SourceAgent   = "agent"
	SourceKeyword = "keyword"
)

// RoleMapping is the reconciliation of one role's required skills.
// Matched and Missing partition the role's required list and keep its order.
type RoleMapping struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// Reconciliation maps every taxonomy role to its RoleMapping.
type Reconciliation map[string]RoleMapping

// Roadmap maps role -> missing skill -> ordered learning steps.
type Roadmap map[string]map[string][]string

// Analysis is the response for one syllabus.
type Analysis struct {
	MatchedSkills map[string][]string `json:"matched_skills"`
	MissingSkills map[string][]string `json:"missing_skills"`
	Roadmap       Roadmap             `json:"roadmap"`
}

// ConceptRequest is the input handed to a concept-mapping agent.
type ConceptRequest struct {
	Text       string
	Vocabulary []string
	// Roles is the role context in taxonomy order; agents may truncate it.
	Roles []RoleSkills
}

// RoleSkills is one role with its required skills.
type RoleSkills struct {
	Role   string
	Skills []string
}

// ConceptMapFunc maps free text onto a skill vocabulary using external
// knowledge. ok is false when no mapping was produced for any reason;
// implementations never return an error to the caller.
type ConceptMapFunc func(ctx context.Context, req ConceptRequest) (skills []string, ok bool)

// TaxonomySource loads the role->skills reference data.
type TaxonomySource interface {
	Load(ctx context.Context) (Taxonomy, error)
}

// TextExtractor (port)
// ExtractPath extracts text from a file at path with provided original filename.
// Implementations may call external services (e.g., Tika) or use local libraries.
type TextExtractor interface {
	ExtractPath(ctx context.Context, fileName, path string) (string, error)
}
