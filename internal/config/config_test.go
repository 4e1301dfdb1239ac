package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, "gemini-1.5-pro", cfg.GeminiModel)
	assert.Equal(t, 5, cfg.GeminiConcurrentReqs)
	assert.Equal(t, 24*time.Hour, cfg.ArtifactTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, int64(25<<20), cfg.MaxUploadBytes())
	assert.False(t, cfg.AuthEnabled())
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("ARTIFACT_TTL", "90m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, 90*time.Minute, cfg.ArtifactTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.AuthEnabled())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing gemini key", map[string]string{"LLM_PROVIDER": "gemini", "GEMINI_API_KEY": ""}},
		{"missing openai key", map[string]string{"LLM_PROVIDER": "openai", "OPENAI_API_KEY": ""}},
		{"unknown provider", map[string]string{"LLM_PROVIDER": "llama", "GEMINI_API_KEY": "k"}},
		{"bad duration", map[string]string{"GEMINI_API_KEY": "k", "ARTIFACT_TTL": "soon"}},
		{"non-positive ttl", map[string]string{"GEMINI_API_KEY": "k", "ARTIFACT_TTL": "0s"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
