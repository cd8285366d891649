package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/quizvox/internal/store"
)

func TestPrintEvents(t *testing.T) {
	var out bytes.Buffer
	printEvents(&out, nil)
	assert.Equal(t, "No LLM requests recorded.\n", out.String())

	out.Reset()
	printEvents(&out, []store.LLMRequestEventRecord{
		{ID: 2, Timestamp: time.Now(), Purpose: "question-rephrase", Model: "gpt-4o-mini", InputTokens: 80, OutputTokens: 40, LatencyMs: 300, ErrorMessage: "llm provider unavailable: 503"},
		{ID: 1, Timestamp: time.Now(), Purpose: "answer-grade", Model: "gpt-4o-mini", InputTokens: 100, OutputTokens: 5, LatencyMs: 200, Success: true},
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if assert.Len(t, lines, 3) {
		assert.True(t, strings.HasPrefix(lines[0], "ID"), lines[0])
		assert.Contains(t, lines[1], "question-rephrase")
		assert.Contains(t, lines[1], "✗ llm provider unavailable: 503")
		assert.Contains(t, lines[2], "answer-grade")
		assert.True(t, strings.HasSuffix(lines[2], "✓"), lines[2])
	}
}

func TestPrintEventIndentsJSON(t *testing.T) {
	var out bytes.Buffer
	printEvent(&out, &store.LLMRequestEventRecord{
		ID:           7,
		Purpose:      "answer-grade",
		RequestBody:  `{"system":"grade","max_tokens":150}`,
		ResponseBody: "",
	})

	text := out.String()
	assert.Contains(t, text, "Purpose:  answer-grade")
	assert.Contains(t, text, "\n  \"max_tokens\": 150")
	assert.Contains(t, text, "RESPONSE")
	assert.Contains(t, text, "(not captured)")
}

func TestPrettyBodyPassesPlainText(t *testing.T) {
	assert.Equal(t, "What is the capital of Peru?", prettyBody("What is the capital of Peru?"))
}

func TestPrintUsage(t *testing.T) {
	var out bytes.Buffer
	printUsage(&out,
		[]store.LLMUsage{
			{Purpose: "answer-grade", Calls: 2, InputTokens: 220, OutputTokens: 10, AvgLatencyMs: 300},
			{Purpose: "question-rephrase", Calls: 1, InputTokens: 80, OutputTokens: 40, AvgLatencyMs: 300},
		},
		[]store.LLMUsage{
			{Model: "gpt-4o-mini", Calls: 2, InputTokens: 220, OutputTokens: 10},
			{Model: "local-llama", Calls: 1, InputTokens: 80, OutputTokens: 40},
		},
	)

	text := out.String()
	assert.Contains(t, text, "Usage by purpose")
	assert.Regexp(t, `TOTAL\s+3\s+300\s+50`, text)
	assert.Contains(t, text, "TOTAL (partial)")
	assert.Contains(t, text, "Pricing unavailable for: local-llama")
}
