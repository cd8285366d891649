package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/abhisek/quizvox/internal/store"
)

// NewProvider creates a Provider from configuration.
// The result is wrapped with retry and, when eventRepo is non-nil,
// request logging. The mock provider is returned unwrapped.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *log.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → timeout → retry → logging → base
	p := base
	if eventRepo != nil {
		p = WithLogging(p, cfg.Provider, eventRepo, logger)
	}
	retry := cfg.Retry
	if retry.OnRetry == nil && logger != nil {
		retry.OnRetry = func(attempt int, err error, wait time.Duration) {
			logger.Printf("llm: %s attempt %d failed, retrying in %s: %v", cfg.Provider, attempt, wait.Round(time.Millisecond), err)
		}
	}
	p = WithRetry(p, retry)
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p, nil
}
