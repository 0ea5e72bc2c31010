package ai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/observability"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

// Agent outcomes reported to metrics.
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeMalformed   = "malformed"
	OutcomeError       = "error"
	OutcomeTimeout     = "timeout"
	OutcomeOpenCircuit = "open_circuit"
	OutcomeCacheHit    = "cache_hit"
)

// Completer sends one prompt to an LLM provider and returns the raw reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() string
	Model() string
}

// Options tune a ConceptMapper. Zero values disable the related feature.
type Options struct {
	Timeout         time.Duration
	MaxPromptTokens int
	// CountTokens measures prompts for MaxPromptTokens.
	CountTokens func(string) int
	// Caches are consulted in order; a hit in a later cache fills earlier ones.
	Caches  []ResultCache
	Breaker *CircuitBreaker
}

// ConceptMapper asks an LLM which vocabulary skills a text mentions or implies.
// Every failure degrades to "no result"; nothing is returned as an error.
type ConceptMapper struct {
	client  Completer
	opts    Options
	caches  []ResultCache
	breaker *CircuitBreaker
}

// NewConceptMapper wraps client. A nil client yields a mapper that never answers.
func NewConceptMapper(client Completer, opts Options) *ConceptMapper {
	m := &ConceptMapper{client: client, opts: opts, breaker: opts.Breaker}
	for _, c := range opts.Caches {
		if c != nil {
			m.caches = append(m.caches, c)
		}
	}
	return m
}

// Func adapts the mapper to domain.ConceptMapFunc. It returns nil for a nil
// mapper or client so callers can treat the agent as disabled.
func (m *ConceptMapper) Func() domain.ConceptMapFunc {
	if m == nil || m.client == nil {
		return nil
	}
	return m.Map
}

// Map returns the vocabulary skills the provider found in req.Text, in
// vocabulary casing. ok is false when no valid reply was obtained.
func (m *ConceptMapper) Map(ctx context.Context, req domain.ConceptRequest) ([]string, bool) {
	if m == nil || m.client == nil {
		return nil, false
	}
	if strings.TrimSpace(req.Text) == "" || len(req.Vocabulary) == 0 {
		return nil, false
	}
	provider, model := m.client.Provider(), m.client.Model()
	lg := observability.LoggerFromContext(ctx).With(slog.String("provider", provider), slog.String("model", model))
	key := keyFor(provider, model, req.Text, req.Vocabulary)

	if skills, ok := m.cached(ctx, key); ok {
		observability.AgentOutcome(OutcomeCacheHit)
		return skills, true
	}

	prompt, fits := FitPrompt(req, m.opts.MaxPromptTokens, m.opts.CountTokens)
	if !fits {
		observability.AgentOutcome(OutcomeError)
		lg.Warn("agent skipped, vocabulary exceeds prompt budget", slog.Int("max_prompt_tokens", m.opts.MaxPromptTokens))
		return nil, false
	}

	if m.breaker != nil && !m.breaker.ShouldAttempt() {
		observability.AgentOutcome(OutcomeOpenCircuit)
		lg.Debug("agent skipped, circuit open")
		return nil, false
	}

	ctx, span := observability.StartSpan(ctx, "ai.ConceptMapper.Map")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", provider),
		attribute.String("ai.model", model),
		attribute.Int("ai.vocabulary_size", len(req.Vocabulary)),
	)

	callCtx := ctx
	if m.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, m.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := m.client.Complete(callCtx, prompt)
	if err != nil {
		m.recordFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, "agent call failed")
		if errors.Is(err, domain.ErrUpstreamTimeout) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			observability.AgentOutcome(OutcomeTimeout)
			lg.Warn("agent timed out, falling back to keywords", slog.Duration("elapsed", time.Since(start)))
		} else {
			observability.AgentOutcome(OutcomeError)
			lg.Warn("agent call failed, falling back to keywords", slog.Any("error", err))
		}
		return nil, false
	}
	m.recordSuccess()

	parsed, err := ParseSkillList(reply)
	if err != nil {
		observability.AgentOutcome(OutcomeMalformed)
		lg.Warn("agent reply discarded", slog.Any("error", err), slog.Int("reply_len", len(reply)))
		return nil, false
	}

	skills := FilterVocabulary(parsed, req.Vocabulary)
	span.SetAttributes(attribute.Int("ai.skills", len(skills)))
	if len(skills) == 0 {
		observability.AgentOutcome(OutcomeEmpty)
		lg.Debug("agent found no skills", slog.Int("raw", len(parsed)))
	} else {
		observability.AgentOutcome(OutcomeOK)
	}
	m.store(ctx, key, skills, len(m.caches))
	return skills, true
}

func (m *ConceptMapper) cached(ctx context.Context, key string) ([]string, bool) {
	for i, c := range m.caches {
		if skills, ok := c.Get(ctx, key); ok {
			m.store(ctx, key, skills, i)
			return skills, true
		}
	}
	return nil, false
}

// store writes skills into the first n caches.
func (m *ConceptMapper) store(ctx context.Context, key string, skills []string, n int) {
	for _, c := range m.caches[:n] {
		c.Set(ctx, key, skills)
	}
}

func (m *ConceptMapper) recordFailure() {
	if m.breaker != nil {
		m.breaker.RecordFailure()
	}
}

func (m *ConceptMapper) recordSuccess() {
	if m.breaker != nil {
		m.breaker.RecordSuccess()
	}
}
