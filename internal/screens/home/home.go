package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizvox/internal/deck"
	"github.com/abhisek/quizvox/internal/router"
	"github.com/abhisek/quizvox/internal/screen"
	"github.com/abhisek/quizvox/internal/ui/components"
	"github.com/abhisek/quizvox/internal/ui/layout"
	"github.com/abhisek/quizvox/internal/ui/theme"
)

// DeckLister lists the decks offered for practice.
type DeckLister interface {
	ListDecks(ctx context.Context) ([]deck.Deck, error)
}

// StartFunc returns the screen that drills d.
type StartFunc func(d deck.Deck) screen.Screen

// HomeScreen lets the user pick a deck to drill.
type HomeScreen struct {
	decks    DeckLister
	start    StartFunc
	language string
	banner   string

	loaded bool
	list   []deck.Deck
	err    error
	menu   components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// decksLoadedMsg is sent when the deck list has been read.
type decksLoadedMsg struct {
	Decks []deck.Deck
	Err   error
}

// New creates a new HomeScreen. banner, when set, is shown above the menu.
func New(decks DeckLister, start StartFunc, language, banner string) *HomeScreen {
	return &HomeScreen{
		decks:    decks,
		start:    start,
		language: language,
		banner:   banner,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	decks := h.decks
	return func() tea.Msg {
		list, err := decks.ListDecks(context.Background())
		return decksLoadedMsg{Decks: list, Err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Decks"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Drill"},
		{Key: "Q", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case decksLoadedMsg:
		h.loaded = true
		h.list, h.err = msg.Decks, msg.Err
		h.menu = components.NewMenu(h.menuItems())
		return h, nil
	case tea.KeyMsg:
		if msg.String() == "q" {
			return h, tea.Quit
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	items := make([]components.MenuItem, 0, len(h.list)+1)
	for _, d := range h.list {
		items = append(items, components.MenuItem{
			Label:    d.Name,
			Hint:     cardCount(d.CardCount),
			Disabled: d.CardCount == 0,
			Action: func() tea.Cmd {
				next := h.start(d)
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		})
	}
	items = append(items, components.MenuItem{
		Label:  "Quit",
		Action: func() tea.Cmd { return tea.Quit },
	})
	return items
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+8) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	switch {
	case !h.loaded:
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.TextDim).Render("Loading decks..."))
	case h.err != nil:
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Width(cw).
			Render(fmt.Sprintf("Could not load decks: %v", h.err)))
	default:
		total := 0
		for _, d := range h.list {
			total += d.CardCount
		}
		sections = append(sections, renderStatsBar(len(h.list), total, h.language, cw))
		if h.banner != "" {
			sections = append(sections, renderBanner(h.banner, cw))
		}
		if len(h.list) == 0 {
			sections = append(sections, renderEmpty(cw))
		} else {
			// title, stats bar, card padding and gaps take the rest
			h.menu.Rows = max(height-lipgloss.Height(strings.Join(sections, "\n\n"))-12, 3)
			sections = append(sections, renderMenu(&h.menu, cw))
		}
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func cardCount(n int) string {
	switch n {
	case 0:
		return "empty"
	case 1:
		return "1 card"
	default:
		return fmt.Sprintf("%d cards", n)
	}
}
