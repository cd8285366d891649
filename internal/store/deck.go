package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/abhisek/quizvox/internal/deck"
)

// ErrDeckExists is returned when creating a deck whose name is taken.
var ErrDeckExists = errors.New("deck already exists")

// DeckRepo implements deck.Repo on top of SQLite.
type DeckRepo struct {
	db *sqlx.DB
}

var _ deck.Repo = (*DeckRepo)(nil)

type deckRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	CardCount int       `db:"card_count"`
}

func (r deckRow) toDeck() deck.Deck {
	return deck.Deck{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, CardCount: r.CardCount}
}

type flashcardRow struct {
	ID       int64  `db:"id"`
	DeckID   int64  `db:"deck_id"`
	Question string `db:"question"`
	Answer   string `db:"answer"`
}

func (r flashcardRow) toFlashcard() deck.Flashcard {
	return deck.Flashcard{ID: r.ID, DeckID: r.DeckID, Question: r.Question, Answer: r.Answer}
}

func (r *DeckRepo) CreateDeck(ctx context.Context, name string) (*deck.Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("deck name is required")
	}

	now := time.Now().UTC()
	query, args := builder().Insert("decks").
		Columns("name", "created_at").
		Values(name, now).
		Returning("id").
		Query()

	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %q", ErrDeckExists, name)
		}
		return nil, fmt.Errorf("insert deck: %w", err)
	}
	return &deck.Deck{ID: id, Name: name, CreatedAt: now}, nil
}

// selectDecks builds the deck listing query with per-deck card counts.
func selectDecks() (*entsql.Selector, *entsql.SelectTable) {
	d := builder().Table("decks")
	// The join would otherwise alias flashcards as t1 after the count
	// column was already rendered against the bare table name.
	f := builder().Table("flashcards").As("f")
	return builder().Select(
		d.C("id"),
		d.C("name"),
		d.C("created_at"),
		entsql.As(entsql.Count(f.C("id")), "card_count"),
	).
		From(d).
		LeftJoin(f).On(d.C("id"), f.C("deck_id")).
		GroupBy(d.C("id")), d
}

func (r *DeckRepo) ListDecks(ctx context.Context) ([]deck.Deck, error) {
	sel, d := selectDecks()
	query, args := sel.OrderBy(d.C("name")).Query()

	var rows []deckRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}

	decks := make([]deck.Deck, len(rows))
	for i, row := range rows {
		decks[i] = row.toDeck()
	}
	return decks, nil
}

func (r *DeckRepo) DeckByName(ctx context.Context, name string) (*deck.Deck, error) {
	sel, d := selectDecks()
	query, args := sel.Where(entsql.EQ(d.C("name"), strings.TrimSpace(name))).Query()

	var row deckRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", deck.ErrNotFound, name)
		}
		return nil, fmt.Errorf("get deck %q: %w", name, err)
	}
	out := row.toDeck()
	return &out, nil
}

func (r *DeckRepo) DeleteDeck(ctx context.Context, id int64) error {
	query, args := builder().Delete("decks").Where(entsql.EQ("id", id)).Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete deck %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %d", deck.ErrNotFound, id)
	}
	return nil
}

func (r *DeckRepo) ListFlashcards(ctx context.Context, deckID int64) ([]deck.Flashcard, error) {
	query, args := builder().Select("id", "deck_id", "question", "answer").
		From(builder().Table("flashcards")).
		Where(entsql.EQ("deck_id", deckID)).
		OrderBy("id").
		Query()

	var rows []flashcardRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}

	cards := make([]deck.Flashcard, len(rows))
	for i, row := range rows {
		cards[i] = row.toFlashcard()
	}
	return cards, nil
}

func (r *DeckRepo) AddFlashcard(ctx context.Context, deckID int64, question, answer string) (*deck.Flashcard, error) {
	card := deck.Flashcard{
		DeckID:   deckID,
		Question: strings.TrimSpace(question),
		Answer:   strings.TrimSpace(answer),
	}
	if !card.Valid() {
		return nil, fmt.Errorf("flashcard needs both a question and an answer")
	}

	query, args := builder().Insert("flashcards").
		Columns("deck_id", "question", "answer").
		Values(card.DeckID, card.Question, card.Answer).
		Returning("id").
		Query()

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&card.ID); err != nil {
		return nil, fmt.Errorf("insert flashcard: %w", err)
	}
	return &card, nil
}

func (r *DeckRepo) UpdateFlashcard(ctx context.Context, card deck.Flashcard) error {
	if !card.Valid() {
		return fmt.Errorf("flashcard needs both a question and an answer")
	}
	query, args := builder().Update("flashcards").
		Set("question", strings.TrimSpace(card.Question)).
		Set("answer", strings.TrimSpace(card.Answer)).
		Where(entsql.EQ("id", card.ID)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update flashcard %d: %w", card.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("flashcard %d not found", card.ID)
	}
	return nil
}

func (r *DeckRepo) DeleteFlashcard(ctx context.Context, id int64) error {
	query, args := builder().Delete("flashcards").Where(entsql.EQ("id", id)).Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete flashcard %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("flashcard %d not found", id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
