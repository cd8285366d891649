// Package judge grades spoken flashcard answers and rewords questions
// through an LLM provider.
package judge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/quizvox/internal/llm"
)

// Config holds configuration for the answer judge.
type Config struct {
	MaxTokens           int
	ClassifyTemperature float64
	RephraseTemperature float64

	// Language names the language rephrased questions are written in,
	// e.g. "English" or "German".
	Language string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:           150,
		ClassifyTemperature: 0,
		RephraseTemperature: 0.7,
		Language:            "English",
	}
}

// Judge classifies answers and produces hints.
type Judge struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Judge backed by provider.
func New(provider llm.Provider, cfg Config) *Judge {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	if cfg.Language == "" {
		cfg.Language = DefaultConfig().Language
	}
	return &Judge{provider: provider, cfg: cfg}
}

type gradeOutput struct {
	Grade string `json:"grade"`
}

// Classify grades candidate against reference. A reply that is not one of
// the four grades yields GradeNone with a nil error; only a failed call
// returns *JudgeError.
func (j *Judge) Classify(ctx context.Context, reference, candidate string) (Grade, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeAnswerGrade)

	userMsg, err := render(classifyTemplate, struct{ Reference, Candidate string }{reference, candidate})
	if err != nil {
		return GradeNone, &JudgeError{Op: "classify", Err: err}
	}

	resp, err := j.provider.Generate(ctx, llm.Request{
		System:      classifySystemPrompt,
		Messages:    llm.UserMessage(userMsg),
		Schema:      GradeSchema,
		MaxTokens:   j.cfg.MaxTokens,
		Temperature: j.cfg.ClassifyTemperature,
	})
	if err != nil {
		if isMalformed(err) {
			return GradeNone, nil
		}
		return GradeNone, &JudgeError{Op: "classify", Err: err}
	}

	var out gradeOutput
	if err := resp.Decode(&out); err != nil {
		return GradeNone, nil
	}
	return ParseGrade(out.Grade), nil
}

// RephraseInput describes the question to reword.
type RephraseInput struct {
	Question  string
	Reference string
	Candidate string
	Grade     Grade
	WithTip   bool
}

type rephraseOutput struct {
	Question string `json:"question"`
	Tip      string `json:"tip"`
}

// Rephrase returns one reworded question, followed by a tip when
// in.WithTip is set.
func (j *Judge) Rephrase(ctx context.Context, in RephraseInput) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionRephrase)

	userMsg, err := render(rephraseTemplate, struct {
		RephraseInput
		Language string
	}{in, j.cfg.Language})
	if err != nil {
		return "", &JudgeError{Op: "rephrase", Err: err}
	}

	resp, err := j.provider.Generate(ctx, llm.Request{
		System:      rephraseSystemPrompt,
		Messages:    llm.UserMessage(userMsg),
		Schema:      RephraseSchema,
		MaxTokens:   j.cfg.MaxTokens,
		Temperature: j.cfg.RephraseTemperature,
	})
	if err != nil {
		return "", &JudgeError{Op: "rephrase", Err: err}
	}

	var out rephraseOutput
	if err := resp.Decode(&out); err != nil {
		return "", &JudgeError{Op: "rephrase", Err: err}
	}

	text := strings.TrimSpace(out.Question)
	if text == "" {
		return "", &JudgeError{Op: "rephrase", Err: errors.New("empty rephrased question")}
	}
	if tip := strings.TrimSpace(out.Tip); in.WithTip && tip != "" {
		text += " " + tip
	}
	return text, nil
}

// isMalformed reports whether err means the model answered but not with a
// usable grade.
func isMalformed(err error) bool {
	var inv *llm.ErrInvalidResponse
	var trunc *llm.ErrMaxTokensExceeded
	return errors.As(err, &inv) || errors.As(err, &trunc)
}

const classifySystemPrompt = `You are a helpful flashcard learning partner. You compare a learner's spoken answer with the reference answer of a flashcard and grade it.

Rules:
- Word order does not matter.
- Additional correct information is fine and must not lower the grade.
- Overlap with the core content of the reference answer is decisive.
- The answer was transcribed from speech; ignore spelling and punctuation.
- If the learner says they do not know, the grade is "none".

Grades:
- full: the core content is completely present.
- partial: part of the core content is present.
- poor: only a small part of the core content is present.
- none: the answer is wrong or shows no knowledge.`

var classifyTemplate = template.Must(template.New("classify").Parse(`Reference answer: {{.Reference}}
Learner's answer: {{.Candidate}}`))

const rephraseSystemPrompt = `You are a helpful flashcard learning partner. The learner answered a flashcard incompletely. Reword the question so it guides them toward the missing part without giving the answer away.`

var rephraseTemplate = template.Must(template.New("rephrase").Parse(`Question: {{.Question}}
Reference answer: {{.Reference}}
Learner's answer: {{.Candidate}}
Grade so far: {{.Grade}}
{{if .WithTip}}Also give one short tip about what is missing.{{else}}Leave the tip empty.{{end}}
Write in {{.Language}}.`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return buf.String(), nil
}
