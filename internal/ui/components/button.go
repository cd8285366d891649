package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Choice is a row of buttons answered with arrow keys and Enter, or with
// the first letter of a label.
type Choice struct {
	Labels   []string
	Selected int
}

// ChoiceMsg reports the label index the user picked.
type ChoiceMsg struct {
	Index int
}

// NewChoice creates a choice with the first label selected.
func NewChoice(labels ...string) Choice {
	return Choice{Labels: labels}
}

// Update handles key events.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(c.Labels) == 0 {
		return c, nil
	}

	key := kmsg.String()
	switch key {
	case "left", "shift+tab":
		if c.Selected > 0 {
			c.Selected--
		}
		return c, nil
	case "right", "tab":
		if c.Selected < len(c.Labels)-1 {
			c.Selected++
		}
		return c, nil
	case "enter":
		return c, c.pick(c.Selected)
	}

	for i, label := range c.Labels {
		if len(label) > 0 && len(key) == 1 && equalFoldByte(key[0], label[0]) {
			c.Selected = i
			return c, c.pick(i)
		}
	}
	return c, nil
}

func (c Choice) pick(i int) tea.Cmd {
	return func() tea.Msg { return ChoiceMsg{Index: i} }
}

// View renders the buttons side by side.
func (c Choice) View() string {
	buttons := make([]string, len(c.Labels))
	for i, label := range c.Labels {
		buttons[i] = Button(label, i == c.Selected, 12)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func equalFoldByte(a, b byte) bool {
	if 'A' <= a && a <= 'Z' {
		a += 'a' - 'A'
	}
	if 'A' <= b && b <= 'Z' {
		b += 'a' - 'A'
	}
	return a == b
}
