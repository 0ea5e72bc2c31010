// Package openai is the OpenAI (or OpenAI-compatible) agent provider.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	goopenai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/ai"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/observability"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/config"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

const provider = "openai"

// Client sends single-message chat completions.
type Client struct {
	api   *goopenai.Client
	model string
	expo  func() *backoff.ExponentialBackOff
}

// New constructs a client from cfg. The HTTP timeout matches AGENT_TIMEOUT.
func New(cfg config.Config) *Client {
	cc := goopenai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		cc.BaseURL = strings.TrimRight(cfg.OpenAIBaseURL, "/")
	}
	cc.HTTPClient = &http.Client{
		Timeout:   cfg.AgentTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return &Client{
		api:   goopenai.NewClientWithConfig(cc),
		model: cfg.OpenAIModel,
		expo:  func() *backoff.ExponentialBackOff { return ai.NewBackOff(cfg) },
	}
}

// Provider implements ai.Completer.
func (c *Client) Provider() string { return provider }

// Model implements ai.Completer.
func (c *Client) Model() string { return c.model }

// Complete sends prompt as a user message at temperature 0.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		// zero is dropped by omitempty
		Temperature: math.SmallestNonzeroFloat32,
	}

	var content string
	op := func() error {
		start := time.Now()
		resp, err := c.api.CreateChatCompletion(ctx, req)
		observability.ObserveAIRequest(provider, "chat", time.Since(start))
		if err != nil {
			return classify(err)
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(fmt.Errorf("%w: empty choices from %s", domain.ErrInternal, provider))
		}
		content = resp.Choices[0].Message.Content
		return nil
	}
	if err := ai.Retry(ctx, c.expo(), op); err != nil {
		slog.Debug("openai completion failed", slog.String("model", c.model), slog.Any("error", err))
		return "", fmt.Errorf("op=openai.Complete: %w", err)
	}
	return strings.TrimSpace(content), nil
}

func classify(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return ai.ClassifyStatus(provider, apiErr.HTTPStatusCode, err)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return ai.ClassifyStatus(provider, reqErr.HTTPStatusCode, err)
	}
	return ai.ClassifyContext(provider, err)
}
