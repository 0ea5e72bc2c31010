package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cenkalti/backoff/v4"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/config"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

// NewBackOff returns the provider retry policy for cfg.
func NewBackOff(cfg config.Config) *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()

	maxElapsedTime, initialInterval, maxInterval, multiplier := cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsedTime
	expo.InitialInterval = initialInterval
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier

	return expo
}

// Retry runs op under expo until it succeeds, returns a permanent error or
// ctx is done. Running out of ctx deadline reports domain.ErrUpstreamTimeout.
func Retry(ctx context.Context, expo *backoff.ExponentialBackOff, op func() error) error {
	err := backoff.Retry(op, backoff.WithContext(expo, ctx))
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrUpstreamTimeout) {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamTimeout, err)
	}
	return err
}

// ClassifyStatus turns a provider HTTP status into a retry decision.
// 429 and 5xx stay retryable; other 4xx are permanent.
func ClassifyStatus(provider string, status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		slog.Warn("ai provider rate limited", slog.String("provider", provider), slog.String("op", "complete"), slog.Int("status", status))
		return fmt.Errorf("%w: %s status %d: %v", domain.ErrUpstreamRateLimit, provider, status, err)
	case status >= 400 && status < 500:
		slog.Warn("ai provider 4xx", slog.String("provider", provider), slog.String("op", "complete"), slog.Int("status", status), slog.Any("error", err))
		return backoff.Permanent(fmt.Errorf("%s status %d: %w", provider, status, err))
	case status >= 500:
		slog.Warn("ai provider non-2xx", slog.String("provider", provider), slog.String("op", "complete"), slog.Int("status", status))
		return fmt.Errorf("%s status %d: %w", provider, status, err)
	default:
		return err
	}
}

// ClassifyContext stops retries once the call context is done. A deadline
// becomes domain.ErrUpstreamTimeout; other errors pass through unchanged.
func ClassifyContext(provider string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return backoff.Permanent(fmt.Errorf("%w: %s: %w", domain.ErrUpstreamTimeout, provider, err))
	case errors.Is(err, context.Canceled):
		return backoff.Permanent(err)
	default:
		return err
	}
}
