package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider grades and rephrases answers.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional. Used by tests and proxies.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for OpenRouter or compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string // Optional. Used by tests and proxies.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "openai/gpt-4o-mini"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// OnRetry, when set, is told about each failed attempt before the wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultConfig returns a Config with sensible defaults. Grading happens
// while the learner waits, so the retry budget is kept short.
func DefaultConfig() Config {
	return Config{
		Provider:   "openai",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "openai/gpt-4o-mini"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     4 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 20 * time.Second,
	}
}

// envBinding maps one environment variable onto a config field.
type envBinding struct {
	key string
	set func(*Config, string)
}

var envBindings = []envBinding{
	{"QUIZVOX_LLM_PROVIDER", func(c *Config, v string) { c.Provider = v }},
	{"QUIZVOX_ANTHROPIC_API_KEY", func(c *Config, v string) { c.Anthropic.APIKey = v }},
	{"QUIZVOX_ANTHROPIC_MODEL", func(c *Config, v string) { c.Anthropic.Model = v }},
	{"QUIZVOX_ANTHROPIC_BASE_URL", func(c *Config, v string) { c.Anthropic.BaseURL = v }},
	{"QUIZVOX_OPENAI_API_KEY", func(c *Config, v string) { c.OpenAI.APIKey = v }},
	{"QUIZVOX_OPENAI_MODEL", func(c *Config, v string) { c.OpenAI.Model = v }},
	{"QUIZVOX_OPENAI_BASE_URL", func(c *Config, v string) { c.OpenAI.BaseURL = v }},
	{"QUIZVOX_GEMINI_API_KEY", func(c *Config, v string) { c.Gemini.APIKey = v }},
	{"QUIZVOX_GEMINI_MODEL", func(c *Config, v string) { c.Gemini.Model = v }},
	{"QUIZVOX_GEMINI_BASE_URL", func(c *Config, v string) { c.Gemini.BaseURL = v }},
	{"QUIZVOX_OPENROUTER_API_KEY", func(c *Config, v string) { c.OpenRouter.APIKey = v }},
	{"QUIZVOX_OPENROUTER_MODEL", func(c *Config, v string) { c.OpenRouter.Model = v }},
	{"QUIZVOX_LLM_TIMEOUT", func(c *Config, v string) {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Timeout = d
		}
	}},
}

// ConfigFromEnv builds a Config from QUIZVOX_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, b := range envBindings {
		if v := os.Getenv(b.key); v != "" {
			b.set(&cfg, v)
		}
	}
	return cfg
}

// DiscoverConfig probes the vendors' standard API key variables in priority
// order (OpenAI → Anthropic → Gemini → OpenRouter) and returns a Config for
// the first provider whose key is found. Returns (Config{}, false) if none.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Resolve returns the QUIZVOX_* configuration when it is complete and
// otherwise falls back to DiscoverConfig.
func Resolve() (Config, error) {
	cfg := ConfigFromEnv()
	err := cfg.Validate()
	if err == nil {
		return cfg, nil
	}
	if discovered, ok := DiscoverConfig(); ok {
		return discovered, nil
	}
	return cfg, err
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case "anthropic":
		key = c.Anthropic.APIKey
	case "openai":
		key = c.OpenAI.APIKey
	case "gemini":
		key = c.Gemini.APIKey
	case "openrouter":
		key = c.OpenRouter.APIKey
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", apiKeyVar(c.Provider), c.Provider)
	}
	return nil
}

func apiKeyVar(provider string) string {
	switch provider {
	case "anthropic":
		return "QUIZVOX_ANTHROPIC_API_KEY"
	case "gemini":
		return "QUIZVOX_GEMINI_API_KEY"
	case "openrouter":
		return "QUIZVOX_OPENROUTER_API_KEY"
	default:
		return "QUIZVOX_OPENAI_API_KEY"
	}
}
