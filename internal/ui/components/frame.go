package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizvox/internal/ui/theme"
)

// maxContentWidth keeps transcript lines short enough to read at a glance.
const maxContentWidth = 72

// ContentWidth is the inner width shared by every box inside a Frame, so
// that stacked boxes line up.
func ContentWidth(frameWidth int) int {
	// frame border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), maxContentWidth)
}

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(theme.Primary).
			Align(lipgloss.Center, lipgloss.Center)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2)

	buttonStyle = lipgloss.NewStyle().
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// Frame draws the outer border of a screen and centers content in it.
func Frame(content string, width, height int) string {
	return frameStyle.Width(width - 2).Height(height - 2).Render(content)
}

// Card draws a rounded box of content width cw.
func Card(content string, cw int) string {
	return cardStyle.Width(cw - 2).Render(content)
}

// Button draws one option of a Choice.
func Button(label string, selected bool, width int) string {
	style := buttonStyle.Width(width)
	if selected {
		return style.Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	}
	return style.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
}
