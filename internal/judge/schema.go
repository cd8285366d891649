package judge

import "github.com/abhisek/quizvox/internal/llm"

// GradeSchema is the structured output of a classification call.
var GradeSchema = &llm.Schema{
	Name:        "answer-grade",
	Description: "How well a spoken answer matches the reference answer of a flashcard",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"grade": map[string]any{
				"type":        "string",
				"enum":        []any{"full", "partial", "poor", "none"},
				"description": "full: core content present. partial: some core content. poor: little overlap. none: wrong or no knowledge.",
			},
		},
		"required":             []any{"grade"},
		"additionalProperties": false,
	},
}

// RephraseSchema is the structured output of a rephrase call.
var RephraseSchema = &llm.Schema{
	Name:        "question-rephrase",
	Description: "A reworded flashcard question that nudges the learner toward the answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The reworded question. One sentence, must not contain the reference answer.",
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "A short tip pointing at what is missing. Empty string when no tip was requested.",
			},
		},
		"required":             []any{"question", "tip"},
		"additionalProperties": false,
	},
}
