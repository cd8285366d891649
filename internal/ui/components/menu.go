package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizvox/internal/ui/theme"
)

// MenuItem is one selectable row, e.g. a deck.
type MenuItem struct {
	Label    string
	Hint     string // dim text after the label, e.g. a card count
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list that scrolls once it has more items than Rows.
type Menu struct {
	Items    []MenuItem
	Selected int

	// Rows limits how many items are drawn; 0 draws all of them.
	Rows int
	top  int
}

// NewMenu creates a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.next(-1, 1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// next returns the first enabled index after from in direction dir, or -1.
func (m Menu) next(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	target := -1
	switch kmsg.String() {
	case "up", "k":
		target = m.next(m.Selected, -1)
	case "down", "j":
		target = m.next(m.Selected, 1)
	case "home", "g":
		target = m.next(-1, 1)
	case "end", "G":
		target = m.next(len(m.Items), -1)
	case "enter":
		if item := m.Items[m.Selected]; item.Action != nil && !item.Disabled {
			return m, item.Action()
		}
	}
	if target >= 0 {
		m.Selected = target
	}
	return m, nil
}

var (
	menuSelected = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	menuNormal   = lipgloss.NewStyle().Foreground(theme.Text)
	menuDim      = lipgloss.NewStyle().Foreground(theme.TextDim)
)

// View renders the visible rows, with a marker where more are hidden.
func (m *Menu) View() string {
	first, last := m.window()

	var b strings.Builder
	if first > 0 {
		b.WriteString(menuDim.Render(fmt.Sprintf("    ↑ %d more", first)) + "\n")
	}
	for i := first; i < last; i++ {
		item := m.Items[i]
		var line string
		switch {
		case item.Disabled:
			line = menuDim.Render("    " + item.Label)
		case i == m.Selected:
			line = menuSelected.Render("  ▸ " + item.Label)
		default:
			line = menuNormal.Render("    " + item.Label)
		}
		if item.Hint != "" {
			line += "  " + menuDim.Render(item.Hint)
		}
		b.WriteString(line + "\n")
	}
	if hidden := len(m.Items) - last; hidden > 0 {
		b.WriteString(menuDim.Render(fmt.Sprintf("    ↓ %d more", hidden)) + "\n")
	}
	return b.String()
}

// window scrolls just enough to keep the selection visible.
func (m *Menu) window() (first, last int) {
	if m.Rows <= 0 || len(m.Items) <= m.Rows {
		return 0, len(m.Items)
	}
	if m.Selected < m.top {
		m.top = m.Selected
	}
	if m.Selected >= m.top+m.Rows {
		m.top = m.Selected - m.Rows + 1
	}
	m.top = min(m.top, len(m.Items)-m.Rows)
	return m.top, m.top + m.Rows
}
