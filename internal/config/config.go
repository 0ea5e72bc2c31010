// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Agent providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`
	// TaxonomySource is a file path (.xlsx, .csv, .yaml, .yml), an s3://bucket/key
	// URL or a postgres:// DSN.
	TaxonomySource string `env:"TAXONOMY_SOURCE" envDefault:"data/skill_list.csv"`
	TaxonomyTable  string `env:"TAXONOMY_TABLE" envDefault:"role_skills"`
	AWSRegion      string `env:"AWS_REGION" envDefault:"us-east-1"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`

	AgentProvider        string        `env:"AGENT_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey         string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL        string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIModel          string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	GeminiAPIKey         string        `env:"GEMINI_API_KEY"`
	GeminiModel          string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	AgentTimeout         time.Duration `env:"AGENT_TIMEOUT" envDefault:"20s"`
	AgentMaxPromptTokens int           `env:"AGENT_MAX_PROMPT_TOKENS" envDefault:"6000"`
	AgentCacheSize       int           `env:"AGENT_CACHE_SIZE" envDefault:"512"`
	AgentCacheTTL        time.Duration `env:"AGENT_CACHE_TTL" envDefault:"24h"`
	// AI Backoff Configuration
	AIBackoffMaxElapsedTime  time.Duration `env:"AI_BACKOFF_MAX_ELAPSED_TIME" envDefault:"15s"`
	AIBackoffInitialInterval time.Duration `env:"AI_BACKOFF_INITIAL_INTERVAL" envDefault:"500ms"`
	AIBackoffMaxInterval     time.Duration `env:"AI_BACKOFF_MAX_INTERVAL" envDefault:"5s"`
	AIBackoffMultiplier      float64       `env:"AI_BACKOFF_MULTIPLIER" envDefault:"1.5"`

	RedisURL string `env:"REDIS_URL"`
	// TikaURL specifies the base URL for the Apache Tika server used for text extraction
	TikaURL string `env:"TIKA_URL"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"syllabus-skill-mapper"`

	MaxUploadMB           int64         `env:"MAX_UPLOAD_MB" envDefault:"5"`
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"60"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	cfg.AgentProvider = strings.ToLower(strings.TrimSpace(cfg.AgentProvider))
	switch cfg.AgentProvider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return Config{}, fmt.Errorf("op=config.Load: unknown AGENT_PROVIDER %q", cfg.AgentProvider)
	}
	if cfg.AgentTimeout <= 0 {
		return Config{}, fmt.Errorf("op=config.Load: AGENT_TIMEOUT must be positive")
	}
	return cfg, nil
}

// AgentEnabled reports whether the selected agent provider has a credential.
func (c Config) AgentEnabled() bool {
	switch c.AgentProvider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey != ""
	case ProviderGemini:
		return c.GeminiAPIKey != ""
	default:
		return false
	}
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// GetAIBackoffConfig returns backoff configuration appropriate for the current environment.
// In test environments, uses much shorter timeouts for faster test execution.
func (c Config) GetAIBackoffConfig() (maxElapsedTime, initialInterval, maxInterval time.Duration, multiplier float64) {
	if c.IsTest() {
		return 2 * time.Second, 50 * time.Millisecond, 200 * time.Millisecond, 2.0
	}
	return c.AIBackoffMaxElapsedTime, c.AIBackoffInitialInterval, c.AIBackoffMaxInterval, c.AIBackoffMultiplier
}
