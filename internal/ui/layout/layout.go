// Package layout draws the frame around every screen.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizvox/internal/ui/theme"
)

// The drill transcript needs room for a question and a couple of replies.
const (
	MinWidth  = 60
	MinHeight = 20

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Header is what the top bar shows for the active screen.
type Header struct {
	Title  string
	Status string // right-aligned, e.g. "geography  2/10"

	// Recording lights the microphone indicator.
	Recording bool
}

func IsCompactWidth(width int) bool   { return width < CompactWidthThreshold }
func IsCompactHeight(height int) bool { return height < CompactHeightThreshold }

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks for a larger terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Body.Render(fmt.Sprintf("Quizvox needs at least %d×%d.\nThis terminal is %d×%d.",
			MinWidth, MinHeight, width, height)))
}

var (
	barStyle = lipgloss.NewStyle().
			Background(theme.BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border)

	brandStyle  = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(theme.Accent)
	recStyle    = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	keyStyle    = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(theme.TextDim)
)

// RenderHeader draws the top bar: brand on the left, the title centered
// and the status on the right.
func RenderHeader(h Header, width int) string {
	left := brandStyle.Render("  Quizvox")
	center := theme.Body.Render(h.Title)
	right := statusStyle.Render(h.Status)
	if h.Recording {
		right = recStyle.Render("● REC") + "  " + right
	}

	inner := max(width-4, 0)
	leftGap := max((inner-lipgloss.Width(center))/2-lipgloss.Width(left), 1)
	rightGap := max(inner-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(right), 1)

	return barStyle.Width(width).Render(
		left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

// RenderFooter draws the key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
	}
	return barStyle.Width(width).Render("  " + strings.Join(parts, descStyle.Render("  ·  ")))
}

// RenderFrame stacks header, content and footer, stretching the content
// to fill the terminal height.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(contentHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
