package llm

import (
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouter shows these on its activity page so quizvox traffic can be
// told apart from other apps sharing a key.
const (
	openRouterReferer = "https://github.com/abhisek/quizvox"
	openRouterTitle   = "quizvox"
)

// OpenRouterProvider talks to OpenRouter through its OpenAI-compatible
// endpoint. Model IDs are passed through untouched ("vendor/model").
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = defaultOpenRouterBaseURL
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{Transport: attribution{next: http.DefaultTransport}}

	return &OpenRouterProvider{OpenAIProvider: newOpenAIProvider(config, cfg.Model)}, nil
}

type attribution struct {
	next http.RoundTripper
}

func (a attribution) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("HTTP-Referer", openRouterReferer)
	r.Header.Set("X-Title", openRouterTitle)
	return a.next.RoundTrip(r)
}
