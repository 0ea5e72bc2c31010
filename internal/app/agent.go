package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/ai"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/ai/gemini"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/ai/openai"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/ai/tokencount"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/config"
)

// Agent bundles the concept mapper with the resources it owns.
type Agent struct {
	Mapper *ai.ConceptMapper
	// Redis is nil when REDIS_URL is unset or unreachable.
	Redis *ai.RedisCache
}

// Close releases the redis connection, if any.
func (a Agent) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}

// NewCompleter returns the provider client selected by cfg, or nil when the
// provider has no credential.
func NewCompleter(ctx context.Context, cfg config.Config) ai.Completer {
	if !cfg.AgentEnabled() {
		return nil
	}
	switch cfg.AgentProvider {
	case config.ProviderGemini:
		cli, err := gemini.New(ctx, cfg)
		if err != nil {
			slog.Warn("gemini client init failed; agent disabled", slog.Any("error", err))
			return nil
		}
		return cli
	default:
		return openai.New(cfg)
	}
}

// BuildAgent assembles the concept-mapping agent. A missing credential or an
// unreachable redis never fails startup; the agent or its shared cache is
// simply left out.
func BuildAgent(ctx context.Context, cfg config.Config) Agent {
	client := NewCompleter(ctx, cfg)
	if client == nil {
		slog.Info("concept-mapping agent disabled", slog.String("provider", cfg.AgentProvider))
		return Agent{}
	}

	var a Agent
	caches := []ai.ResultCache{ai.NewMemoryCache(cfg.AgentCacheSize)}
	if cfg.RedisURL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		rc, err := ai.NewRedisCache(pingCtx, cfg.RedisURL, cfg.AgentCacheTTL)
		cancel()
		if err != nil {
			slog.Warn("redis agent cache unavailable", slog.Any("error", err))
		} else {
			a.Redis = rc
			caches = append(caches, rc)
		}
	}

	model := client.Model()
	a.Mapper = ai.NewConceptMapper(client, ai.Options{
		Timeout:         cfg.AgentTimeout,
		MaxPromptTokens: cfg.AgentMaxPromptTokens,
		CountTokens:     func(s string) int { return tokencount.DefaultCounter.Estimate(s, model) },
		Caches:          caches,
		Breaker:         ai.NewCircuitBreaker(client.Provider(), 3, 30*time.Second),
	})
	slog.Info("concept-mapping agent enabled",
		slog.String("provider", client.Provider()),
		slog.String("model", model),
		slog.Bool("redis_cache", a.Redis != nil))
	return a
}
