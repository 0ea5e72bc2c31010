package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "data/skill_list.csv", cfg.TaxonomySource)
	assert.Equal(t, ProviderOpenAI, cfg.AgentProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 20*time.Second, cfg.AgentTimeout)
	assert.Equal(t, int64(5), cfg.MaxUploadMB)
	assert.Equal(t, "syllabus-skill-mapper", cfg.OTELServiceName)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.IsProd())
}

func Test_AgentEnabled(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "g-key")

	t.Setenv("AGENT_PROVIDER", "openai")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.AgentEnabled())

	t.Setenv("AGENT_PROVIDER", " Gemini ")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.AgentProvider)
	assert.True(t, cfg.AgentEnabled())
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)

	t.Setenv("AGENT_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.AgentEnabled())
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
}

func Test_Load_Errors(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("AGENT_PROVIDER", "bard")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "op=config.Load")
	})
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("AGENT_TIMEOUT", "soon")
		_, err := Load()
		require.Error(t, err)
	})
	t.Run("non-positive timeout", func(t *testing.T) {
		t.Setenv("AGENT_TIMEOUT", "0s")
		_, err := Load()
		require.Error(t, err)
	})
	t.Run("bad port", func(t *testing.T) {
		t.Setenv("PORT", "eighty")
		_, err := Load()
		require.Error(t, err)
	})
}

func Test_GetAIBackoffConfig(t *testing.T) {
	cfg := Config{AppEnv: "test", AIBackoffMaxElapsedTime: time.Minute}
	maxElapsed, _, _, _ := cfg.GetAIBackoffConfig()
	assert.Equal(t, 2*time.Second, maxElapsed)

	cfg.AppEnv = "prod"
	maxElapsed, initial, maxInterval, mult := cfg.GetAIBackoffConfig()
	assert.Equal(t, time.Minute, maxElapsed)
	assert.Zero(t, initial)
	assert.Zero(t, maxInterval)
	assert.Zero(t, mult)
}
