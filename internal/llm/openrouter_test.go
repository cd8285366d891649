package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOpenRouterProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "openai/gpt-4o-mini"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestNewOpenRouterProvider_ModelPassThrough(t *testing.T) {
	// Vendor-prefixed IDs are not friendly names and must not be rewritten.
	for _, model := range []string{"openai/gpt-4o-mini", "anthropic/claude-3-haiku", "google/gemini-2.0-flash-exp"} {
		p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: model})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", model, err)
		}
		if p.ModelID() != model {
			t.Errorf("model = %q, want %q", p.ModelID(), model)
		}
	}
}

func TestOpenRouterProvider_GradesThroughBaseURL(t *testing.T) {
	var gotModel, gotAuth, gotTitle string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		gotModel, _ = body["model"].(string)
		gotAuth = r.Header.Get("Authorization")
		gotTitle = r.Header.Get("X-Title")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"grade":"poor"}`, "stop"))
	}))
	defer srv.Close()

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "openai/gpt-4o-mini",
		BaseURL: srv.URL + "/api/v1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := p.Generate(context.Background(), gradeRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(resp.Content) != `{"grade":"poor"}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if gotModel != "openai/gpt-4o-mini" {
		t.Errorf("model sent = %q", gotModel)
	}
	if gotAuth != "Bearer sk-or-test" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotTitle != "quizvox" {
		t.Errorf("X-Title = %q", gotTitle)
	}
}
