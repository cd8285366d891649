package judge

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/quizvox/internal/llm"
)

func TestClassify_Grades(t *testing.T) {
	tests := []struct {
		content string
		want    Grade
	}{
		{`{"grade":"full"}`, GradeFull},
		{`{"grade":"partial"}`, GradePartial},
		{`{"grade":"poor"}`, GradePoor},
		{`{"grade":"none"}`, GradeNone},
		{`{"grade":"Mittel"}`, GradePartial},
		{`{"grade":"excellent"}`, GradeNone},
		{`not json`, GradeNone},
	}

	for _, tt := range tests {
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(tt.content)})
		j := New(mock, DefaultConfig())

		got, err := j.Classify(context.Background(), "Paris", "the capital is Paris")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.content, err)
		}
		if got != tt.want {
			t.Errorf("%s: grade = %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestClassify_RequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"grade":"full"}`)})
	j := New(mock, DefaultConfig())

	if _, err := j.Classify(context.Background(), "Mitochondria", "mitochondria produce energy"); err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	req := mock.Calls[0]
	if req.Schema != GradeSchema {
		t.Error("expected the grade schema on the request")
	}
	if req.MaxTokens != 150 {
		t.Errorf("MaxTokens = %d, want 150", req.MaxTokens)
	}
	if req.Temperature != 0 {
		t.Errorf("Temperature = %v, want 0", req.Temperature)
	}
	msg := req.Messages[0].Content
	if !strings.Contains(msg, "Reference answer: Mitochondria") || !strings.Contains(msg, "Learner's answer: mitochondria produce energy") {
		t.Errorf("unexpected prompt:\n%s", msg)
	}
	if !strings.Contains(req.System, "Word order does not matter") {
		t.Error("system prompt is missing the rubric")
	}
}

func TestClassify_InvalidResponseIsNone(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrInvalidResponse{Err: errors.New("enum mismatch")}})
	j := New(mock, DefaultConfig())

	got, err := j.Classify(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != GradeNone {
		t.Errorf("grade = %q, want none", got)
	}
}

func TestClassify_ProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	j := New(mock, DefaultConfig())

	_, err := j.Classify(context.Background(), "a", "b")
	var je *JudgeError
	if !errors.As(err, &je) {
		t.Fatalf("expected JudgeError, got %T (%v)", err, err)
	}
	if je.Op != "classify" {
		t.Errorf("op = %q", je.Op)
	}
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Error("JudgeError should unwrap to the provider error")
	}
}

func TestRephrase_Hint(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"question":"Which organelle is the powerhouse of the cell?","tip":"ignored"}`),
	})
	j := New(mock, DefaultConfig())

	got, err := j.Rephrase(context.Background(), RephraseInput{
		Question:  "What produces energy in a cell?",
		Reference: "Mitochondria",
		Candidate: "some part of the cell",
		Grade:     GradePartial,
	})
	if err != nil {
		t.Fatalf("Rephrase failed: %v", err)
	}
	if got != "Which organelle is the powerhouse of the cell?" {
		t.Errorf("rephrase = %q", got)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "Leave the tip empty.") {
		t.Error("hint prompt should not request a tip")
	}
}

func TestRephrase_WithTip(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"question":"Wo entsteht die Energie der Zelle?","tip":"Denk an Organellen."}`),
	})
	cfg := DefaultConfig()
	cfg.Language = "German"
	j := New(mock, cfg)

	got, err := j.Rephrase(context.Background(), RephraseInput{
		Question:  "Was erzeugt Energie in der Zelle?",
		Reference: "Mitochondrien",
		Candidate: "der Kern",
		Grade:     GradePoor,
		WithTip:   true,
	})
	if err != nil {
		t.Fatalf("Rephrase failed: %v", err)
	}
	if got != "Wo entsteht die Energie der Zelle? Denk an Organellen." {
		t.Errorf("rephrase = %q", got)
	}
	prompt := mock.Calls[0].Messages[0].Content
	if !strings.Contains(prompt, "Write in German.") || !strings.Contains(prompt, "one short tip") {
		t.Errorf("unexpected prompt:\n%s", prompt)
	}
}

func TestRephrase_EmptyIsError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"question":"  ","tip":""}`)})
	j := New(mock, DefaultConfig())

	_, err := j.Rephrase(context.Background(), RephraseInput{Question: "Q", Reference: "A", Candidate: "x", Grade: GradePartial})
	var je *JudgeError
	if !errors.As(err, &je) {
		t.Fatalf("expected JudgeError, got %v", err)
	}
}

func TestParseGrade(t *testing.T) {
	tests := map[string]Grade{
		"full":       GradeFull,
		" Partial. ": GradePartial,
		"POOR":       GradePoor,
		"ganz":       GradeFull,
		"schlecht":   GradePoor,
		"gar nicht":  GradeNone,
		"":           GradeNone,
		"maybe":      GradeNone,
	}
	for in, want := range tests {
		if got := ParseGrade(in); got != want {
			t.Errorf("ParseGrade(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClassifyThenRephraseSharesProvider(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddResponse(llm.MockResponse{Content: json.RawMessage(`{"grade":"partial"}`)})
	mock.AddResponse(llm.MockResponse{Content: json.RawMessage(`{"question":"Name the capital city.","tip":""}`)})
	j := New(mock, DefaultConfig())
	ctx := context.Background()

	g, err := j.Classify(ctx, "Paris", "a city in France")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if g != GradePartial {
		t.Fatalf("grade = %v, want partial", g)
	}

	q, err := j.Rephrase(ctx, RephraseInput{Question: "Capital of France?", Reference: "Paris", Candidate: "a city in France", Grade: g})
	if err != nil {
		t.Fatalf("Rephrase failed: %v", err)
	}
	if q != "Name the capital city." {
		t.Errorf("rephrase = %q", q)
	}
	if mock.CallCount() != 2 {
		t.Errorf("calls = %d, want 2", mock.CallCount())
	}
}
