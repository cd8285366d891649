package components

import (
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: rune(s[0]), Text: s}
}

func TestMenuSkipsDisabledItems(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "empty", Disabled: true},
		{Label: "biology"},
		{Label: "empty too", Disabled: true},
		{Label: "history"},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want first enabled item 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("after down Selected = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("after up Selected = %d, want 1", m.Selected)
	}
}

func TestMenuEnterRunsAction(t *testing.T) {
	called := false
	m := NewMenu([]MenuItem{{Label: "go", Action: func() tea.Cmd {
		called = true
		return nil
	}}})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !called {
		t.Error("expected action to run on Enter")
	}
}

func TestMenuViewShowsHint(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "biology", Hint: "12 cards"}})
	if v := m.View(); !strings.Contains(v, "12 cards") || !strings.Contains(v, "biology") {
		t.Errorf("unexpected view:\n%s", v)
	}
}

func TestChoicePicksByLetter(t *testing.T) {
	c := NewChoice("Yes", "No")
	c, cmd := c.Update(key("n"))
	if cmd == nil {
		t.Fatal("expected a command for a matching letter")
	}
	if msg := cmd().(ChoiceMsg); msg.Index != 1 {
		t.Errorf("picked %d, want 1", msg.Index)
	}
	if c.Selected != 1 {
		t.Errorf("Selected = %d, want 1", c.Selected)
	}
}

func TestChoiceArrowsAndEnter(t *testing.T) {
	c := NewChoice("Ja", "Nein")
	c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if c.Selected != 1 {
		t.Fatalf("Selected = %d, want 1 (clamped)", c.Selected)
	}
	c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	_, cmd := c.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if msg := cmd().(ChoiceMsg); msg.Index != 0 {
		t.Errorf("picked %d, want 0", msg.Index)
	}
}

func TestChoiceIgnoresOtherKeys(t *testing.T) {
	c := NewChoice("Yes", "No")
	if _, cmd := c.Update(key("x")); cmd != nil {
		t.Error("expected no command for an unrelated key")
	}
}

func TestProgressBarCount(t *testing.T) {
	v := NewProgressBar("Cards", 3, 10, 40).View()
	if !strings.Contains(v, "3/10") {
		t.Errorf("expected count in view, got %q", v)
	}
	if v := NewProgressBar("", 0, 0, 20).View(); !strings.Contains(v, "0/0") {
		t.Errorf("expected empty count in view, got %q", v)
	}
}

func TestMenuScrollsToSelection(t *testing.T) {
	items := make([]MenuItem, 10)
	for i := range items {
		items[i] = MenuItem{Label: fmt.Sprintf("deck-%02d", i)}
	}
	m := NewMenu(items)
	m.Rows = 4

	v := m.View()
	if !strings.Contains(v, "deck-00") || strings.Contains(v, "deck-04") || !strings.Contains(v, "↓ 6 more") {
		t.Fatalf("initial window wrong:\n%s", v)
	}

	for range 5 {
		m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	v = m.View()
	if !strings.Contains(v, "deck-05") || strings.Contains(v, "deck-01") || !strings.Contains(v, "↑ 2 more") {
		t.Fatalf("window did not follow selection:\n%s", v)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnd})
	if m.Selected != 9 {
		t.Fatalf("End selected %d, want 9", m.Selected)
	}
	if v = m.View(); !strings.Contains(v, "deck-09") || strings.Contains(v, "↓") {
		t.Fatalf("end window wrong:\n%s", v)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyHome})
	if m.Selected != 0 {
		t.Fatalf("Home selected %d, want 0", m.Selected)
	}
}
