package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// gradeFixture has the shape of the grader's answer-grade schema.
func gradeFixture() *Schema {
	return &Schema{
		Name:        "answer-grade",
		Description: "How well a spoken answer matches the reference",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"grade": map[string]any{"type": "string", "enum": []any{"full", "partial", "poor", "none"}},
			},
			"required":             []any{"grade"},
			"additionalProperties": false,
		},
	}
}

// cardsFixture has the shape of the card generator's flashcard-set schema.
func cardsFixture() *Schema {
	return &Schema{
		Name:        "flashcard-set",
		Description: "Flashcards derived from a study text",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"cards": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"question": map[string]any{"type": "string"},
							"answer":   map[string]any{"type": "string"},
						},
						"required": []any{"question", "answer"},
					},
				},
			},
			"required": []any{"cards"},
		},
	}
}

func TestValidateResponse_AcceptsEveryGrade(t *testing.T) {
	for _, g := range []string{"full", "partial", "poor", "none"} {
		raw := json.RawMessage(`{"grade":"` + g + `"}`)
		if err := validateResponse(gradeFixture(), raw); err != nil {
			t.Errorf("grade %q rejected: %v", g, err)
		}
	}
}

func TestValidateResponse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"unknown grade", `{"grade":"excellent"}`, "does not match"},
		{"missing grade", `{}`, "does not match"},
		{"grade as number", `{"grade":3}`, "does not match"},
		{"extra field", `{"grade":"full","reason":"close enough"}`, "does not match"},
		{"prose instead of JSON", `The answer is fully correct.`, "not JSON"},
		{"empty reply", ``, "not JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(gradeFixture(), json.RawMessage(tt.raw))
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected *ErrInvalidResponse, got %T (%v)", err, err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
			if string(inv.Content) != tt.raw {
				t.Fatalf("content not preserved: %q", inv.Content)
			}
		})
	}
}

func TestValidateResponse_NilSchemaAcceptsAnything(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`plain words`)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateResponse_CardItems(t *testing.T) {
	ok := json.RawMessage(`{"cards":[{"question":"Capital of Italy?","answer":"Rome"},{"question":"Largest planet?","answer":"Jupiter"}]}`)
	if err := validateResponse(cardsFixture(), ok); err != nil {
		t.Fatalf("expected valid card set, got %v", err)
	}

	noAnswer := json.RawMessage(`{"cards":[{"question":"Capital of Italy?"}]}`)
	if err := validateResponse(cardsFixture(), noAnswer); err == nil {
		t.Fatal("expected a card without an answer to be rejected")
	}
}

func TestCompileSchema_CachesByName(t *testing.T) {
	first, err := compileSchema(gradeFixture())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, err := compileSchema(gradeFixture())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if first != second {
		t.Fatal("expected the compiled schema to be reused")
	}
}
