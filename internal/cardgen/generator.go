// Package cardgen turns a passage of study text into flashcards using an
// LLM provider.
package cardgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/quizvox/internal/deck"
	"github.com/abhisek/quizvox/internal/llm"
)

// ErrNoCards is returned when the model produced no usable flashcard.
var ErrNoCards = errors.New("no flashcards generated")

// Config controls the generator.
type Config struct {
	// Count is how many flashcards to ask for.
	Count int

	// MaxTokens is the token budget for the response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// Language names the language the cards are written in.
	Language string

	// MaxTextRunes caps how much of the source text goes into the prompt.
	MaxTextRunes int
}

// DefaultConfig returns the recommended generator settings.
func DefaultConfig() Config {
	return Config{
		Count:        10,
		MaxTokens:    1500,
		Temperature:  0.7,
		Language:     "English",
		MaxTextRunes: 12000,
	}
}

// Generator produces flashcards from text.
type Generator struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Generator backed by provider. Zero fields in cfg take
// their DefaultConfig values.
func New(provider llm.Provider, cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.Count <= 0 {
		cfg.Count = def.Count
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	if cfg.MaxTextRunes <= 0 {
		cfg.MaxTextRunes = def.MaxTextRunes
	}
	return &Generator{provider: provider, cfg: cfg}
}

type cardsOutput struct {
	Cards []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"cards"`
}

// Generate asks the model for up to Count flashcards about text. Cards with
// an empty side and repeated questions are dropped.
func (g *Generator) Generate(ctx context.Context, text string) ([]deck.Flashcard, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("source text is empty")
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeCardGen)

	var buf bytes.Buffer
	err := promptTemplate.Execute(&buf, struct {
		Count    int
		Language string
		Text     string
	}{g.cfg.Count, g.cfg.Language, truncateRunes(text, g.cfg.MaxTextRunes)})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(buf.String()),
		Schema:      CardsSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out cardsOutput
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	seen := make(map[string]bool)
	var cards []deck.Flashcard
	for _, c := range out.Cards {
		card := deck.Flashcard{
			Question: strings.TrimSpace(c.Question),
			Answer:   strings.TrimSpace(c.Answer),
		}
		key := strings.ToLower(card.Question)
		if !card.Valid() || seen[key] {
			continue
		}
		seen[key] = true
		cards = append(cards, card)
		if len(cards) == g.cfg.Count {
			break
		}
	}
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	return cards, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

const systemPrompt = `You are a professor preparing flashcards for spoken review. Every card has one short question and one concise answer that can be read aloud. Use only facts stated in the text.`

var promptTemplate = template.Must(template.New("cardgen").Parse(`Create {{.Count}} short and simple flashcards from the following text.
Write them in {{.Language}}. Prefer key terms, definitions and concrete examples.
Do not number the cards.

Text:
"""
{{.Text}}
"""`))
