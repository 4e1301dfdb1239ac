package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	// Server
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Language model. GEMINI_CONCURRENT_REQUESTS bounds in-flight calls for either provider.
	LLMProvider          string `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey         string `env:"GEMINI_API_KEY"`
	GeminiModel          string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-pro"`
	GeminiConcurrentReqs int    `env:"GEMINI_CONCURRENT_REQUESTS" envDefault:"5"`
	OpenAIAPIKey         string `env:"OPENAI_API_KEY"`
	OpenAIModel          string `env:"OPENAI_MODEL" envDefault:"gpt-4.1-mini"`
	OpenAIBaseURL        string `env:"OPENAI_BASE_URL"`

	// Storage, all optional
	DatabaseURL       string        `env:"DATABASE_URL"`
	RedisURL          string        `env:"REDIS_URL"`
	ArtifactTTL       time.Duration `env:"ARTIFACT_TTL" envDefault:"24h"`
	ArtifactCacheSize int           `env:"ARTIFACT_CACHE_SIZE" envDefault:"256"`

	// JWT, auth is disabled when empty
	JWTSecret string `env:"JWT_SECRET"`

	// HTTP
	CORSAllowedOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxUploadMB           int64         `env:"MAX_UPLOAD_MB" envDefault:"25"`
	GenerateRatePerMinute int           `env:"GENERATE_RATE_PER_MINUTE" envDefault:"20"`
	YouTubeHTTPTimeout    time.Duration `env:"YOUTUBE_HTTP_TIMEOUT" envDefault:"30s"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))

	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("required environment variable GEMINI_API_KEY is not set")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("required environment variable OPENAI_API_KEY is not set")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q (expected %q or %q)", c.LLMProvider, ProviderGemini, ProviderOpenAI)
	}

	if c.GeminiConcurrentReqs <= 0 {
		c.GeminiConcurrentReqs = 1
	}
	if c.ArtifactTTL <= 0 {
		return fmt.Errorf("ARTIFACT_TTL must be positive")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if c.GenerateRatePerMinute <= 0 {
		return fmt.Errorf("GENERATE_RATE_PER_MINUTE must be positive")
	}
	return nil
}

func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
