package cardgen

import "github.com/abhisek/quizvox/internal/llm"

// CardsSchema is the structured output of a generation call.
var CardsSchema = &llm.Schema{
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
						"question": map[string]any{
							"type":        "string",
							"description": "A short question answerable from the text",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "A concise answer that can be spoken aloud in one or two sentences",
						},
					},
					"required":             []any{"question", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"cards"},
		"additionalProperties": false,
	},
}
