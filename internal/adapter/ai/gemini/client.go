// Package gemini is the Google Gemini agent provider.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/genai"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/ai"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/observability"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/config"
)

const provider = "gemini"

// Client calls Models.GenerateContent with a single text part.
type Client struct {
	api   *genai.Client
	model string
	expo  func() *backoff.ExponentialBackOff
}

// New constructs a client from cfg.
func New(ctx context.Context, cfg config.Config) (*Client, error) {
	return newClient(ctx, cfg, "")
}

func newClient(ctx context.Context, cfg config.Config, baseURL string) (*Client, error) {
	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Timeout:   cfg.AgentTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("op=gemini.New: %w", err)
	}
	return &Client{
		api:   api,
		model: cfg.GeminiModel,
		expo:  func() *backoff.ExponentialBackOff { return ai.NewBackOff(cfg) },
	}, nil
}

// Provider implements ai.Completer.
func (c *Client) Provider() string { return provider }

// Model implements ai.Completer.
func (c *Client) Model() string { return c.model }

// Complete sends prompt at temperature 0 and returns the reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	gc := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0)}

	var content string
	op := func() error {
		start := time.Now()
		resp, err := c.api.Models.GenerateContent(ctx, c.model, genai.Text(prompt), gc)
		observability.ObserveAIRequest(provider, "generate", time.Since(start))
		if err != nil {
			return classify(err)
		}
		content = resp.Text()
		return nil
	}
	if err := ai.Retry(ctx, c.expo(), op); err != nil {
		slog.Debug("gemini completion failed", slog.String("model", c.model), slog.Any("error", err))
		return "", fmt.Errorf("op=gemini.Complete: %w", err)
	}
	return strings.TrimSpace(content), nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return ai.ClassifyStatus(provider, apiErr.Code, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return ai.ClassifyStatus(provider, apiErrPtr.Code, err)
	}
	return ai.ClassifyContext(provider, err)
}
