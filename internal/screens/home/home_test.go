package home

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizvox/internal/deck"
	"github.com/abhisek/quizvox/internal/router"
	"github.com/abhisek/quizvox/internal/screen"
	"github.com/abhisek/quizvox/internal/screens/summary"
	summarypkg "github.com/abhisek/quizvox/internal/summary"
)

type staticDecks struct {
	decks []deck.Deck
	err   error
}

func (s staticDecks) ListDecks(context.Context) ([]deck.Deck, error) {
	return s.decks, s.err
}

func loadedHome(t *testing.T, lister DeckLister, start StartFunc) *HomeScreen {
	t.Helper()
	h := New(lister, start, "English", "")
	h.Update(h.Init()())
	return h
}

func TestHomeListsDecksWithCounts(t *testing.T) {
	h := loadedHome(t, staticDecks{decks: []deck.Deck{
		{ID: 1, Name: "empty", CardCount: 0},
		{ID: 2, Name: "biology", CardCount: 12},
		{ID: 3, Name: "capitals", CardCount: 1},
	}}, nil)

	view := h.View(100, 40)
	for _, want := range []string{"biology", "12 cards", "capitals", "1 card", "13 CARDS", "Quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if h.menu.Selected != 1 {
		t.Errorf("Selected = %d, want first non-empty deck", h.menu.Selected)
	}
}

func TestHomeEnterStartsSelectedDeck(t *testing.T) {
	var started deck.Deck
	target := summary.New("biology", summarypkg.EnglishLabels, summarypkg.Buckets{})
	h := loadedHome(t, staticDecks{decks: []deck.Deck{
		{ID: 2, Name: "biology", CardCount: 12},
	}}, func(d deck.Deck) screen.Screen {
		started = d
		return target
	})

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if push.Screen != target || started.ID != 2 {
		t.Errorf("started %+v with %T", started, push.Screen)
	}
}

func TestHomeEmptyState(t *testing.T) {
	h := loadedHome(t, staticDecks{}, nil)
	if !strings.Contains(h.View(100, 40), "quizvox deck import") {
		t.Error("expected import instructions for an empty library")
	}
}

func TestHomeLoadError(t *testing.T) {
	h := loadedHome(t, staticDecks{err: errors.New("database is locked")}, nil)
	if !strings.Contains(h.View(100, 40), "database is locked") {
		t.Error("expected load error in view")
	}
}

func TestHomeBanner(t *testing.T) {
	h := New(staticDecks{}, nil, "German", "Set QUIZVOX_OPENAI_API_KEY to drill")
	h.Update(h.Init()())
	view := h.View(100, 40)
	if !strings.Contains(view, "QUIZVOX_OPENAI_API_KEY") || !strings.Contains(view, "GERMAN") {
		t.Errorf("unexpected view:\n%s", view)
	}
}
