package deck

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a deck lookup matches nothing.
var ErrNotFound = errors.New("deck not found")

// Deck is a named collection of flashcards.
type Deck struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	CardCount int
}

// Flashcard is a single question/answer pair. A drill session never
// modifies the cards it was given.
type Flashcard struct {
	ID       int64
	DeckID   int64
	Question string
	Answer   string
}

// Valid reports whether both sides of the card carry text.
func (f Flashcard) Valid() bool {
	return strings.TrimSpace(f.Question) != "" && strings.TrimSpace(f.Answer) != ""
}

// Source supplies the ordered flashcards of a deck.
type Source interface {
	ListFlashcards(ctx context.Context, deckID int64) ([]Flashcard, error)
}

// Repo is the full read/write deck store used by the CLI.
type Repo interface {
	Source

	CreateDeck(ctx context.Context, name string) (*Deck, error)
	ListDecks(ctx context.Context) ([]Deck, error)
	DeckByName(ctx context.Context, name string) (*Deck, error)
	DeleteDeck(ctx context.Context, id int64) error

	AddFlashcard(ctx context.Context, deckID int64, question, answer string) (*Flashcard, error)
	UpdateFlashcard(ctx context.Context, card Flashcard) error
	DeleteFlashcard(ctx context.Context, id int64) error
}
