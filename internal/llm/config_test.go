package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizvox/internal/store"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, b := range envBindings {
		t.Setenv(b.key, "")
	}
	for _, k := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("QUIZVOX_LLM_PROVIDER", "anthropic")
	t.Setenv("QUIZVOX_ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("QUIZVOX_ANTHROPIC_MODEL", "claude-sonnet")
	t.Setenv("QUIZVOX_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "sk-ant", cfg.Anthropic.APIKey)
	assert.Equal(t, "claude-sonnet", cfg.Anthropic.Model)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model, "untouched fields keep defaults")
	require.NoError(t, cfg.Validate())
}

func TestConfigFromEnv_IgnoresBadTimeout(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("QUIZVOX_LLM_TIMEOUT", "soon")
	assert.Equal(t, DefaultConfig().Timeout, ConfigFromEnv().Timeout)
}

func TestResolve_FallsBackToDiscovery(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	cfg, err := Resolve()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-openai", cfg.OpenAI.APIKey)
}

func TestResolve_NoKeys(t *testing.T) {
	clearLLMEnv(t)
	_, err := Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUIZVOX_OPENAI_API_KEY")
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	_, err = NewProvider(context.Background(), Config{Provider: "llama"}, nil, nil)
	assert.Error(t, err)
}

type recordingRepo struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsEvent(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"grade":"full"}`), Usage: Usage{InputTokens: 30, OutputTokens: 4}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	repo := &recordingRepo{}
	p := WithLogging(mock, "openai", repo, nil)

	ctx := WithPurpose(context.Background(), "answer-grade")
	_, err := p.Generate(ctx, Request{System: "grader", Messages: UserMessage("hi"), Schema: gradeSchema()})
	require.NoError(t, err)
	_, err = p.Generate(ctx, Request{Messages: UserMessage("again")})
	require.Error(t, err)

	require.Len(t, repo.events, 2)
	first := repo.events[0]
	assert.Equal(t, "openai", first.Provider)
	assert.Equal(t, "answer-grade", first.Purpose)
	assert.True(t, first.Success)
	assert.Equal(t, 30, first.InputTokens)
	assert.Equal(t, `{"grade":"full"}`, first.ResponseBody)
	assert.True(t, strings.Contains(first.RequestBody, "[system]\ngrader"))
	assert.True(t, strings.Contains(first.RequestBody, "[schema: grade-only]"))

	second := repo.events[1]
	assert.False(t, second.Success)
	assert.Contains(t, second.ErrorMessage, "down")
}

func TestLoggingProvider_RepoFailureDoesNotFailRequest(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", &recordingRepo{err: errors.New("disk full")}, nil)

	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 10*time.Millisecond)

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "slow", p.ModelID())
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.75, c.Cost(1_000_000, 1_000_000), 1e-9)

	assert.NotNil(t, LookupCost("openai/gpt-4o-mini"), "OpenRouter IDs resolve by suffix")
	assert.Nil(t, LookupCost("unknown-model"))
}
