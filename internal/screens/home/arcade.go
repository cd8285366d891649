package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizvox/internal/ui/components"
	"github.com/abhisek/quizvox/internal/ui/theme"
)

const arcadeTitleFull = ` ██████╗ ██╗   ██╗██╗███████╗██╗   ██╗ ██████╗ ██╗  ██╗
██╔═══██╗██║   ██║██║╚══███╔╝██║   ██║██╔═══██╗╚██╗██╔╝
██║   ██║██║   ██║██║  ███╔╝ ██║   ██║██║   ██║ ╚███╔╝
██║▄▄ ██║██║   ██║██║ ███╔╝  ╚██╗ ██╔╝██║   ██║ ██╔██╗
╚██████╔╝╚██████╔╝██║███████╗ ╚████╔╝ ╚██████╔╝██╔╝ ██╗
 ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝  ╚═══╝   ╚═════╝ ╚═╝  ╚═╝`

const arcadeTitleCompact = "Q · U · I · Z · V · O · X"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := arcadeTitleFull
	if compact || cw < lipgloss.Width(arcadeTitleFull) {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders the deck totals in a bordered box matching content width.
func renderStatsBar(decks, cards int, language string, cw int) string {
	deckStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	cardStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	langStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)

	stats := fmt.Sprintf("%s  %s  %s",
		deckStyle.Render(fmt.Sprintf("★ %d DECKS", decks)),
		cardStyle.Render(fmt.Sprintf("◆ %d CARDS", cards)),
		langStyle.Render(strings.ToUpper(language)),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderMenu renders the deck list inside a card matching content width.
func renderMenu(menu *components.Menu, cw int) string {
	return components.Card(strings.TrimRight(menu.View(), "\n"), cw)
}

// renderEmpty explains how to get a first deck.
func renderEmpty(cw int) string {
	text := "No decks yet.\n\nImport one from a spreadsheet:\n  quizvox deck import <name> cards.xlsx\n\nor generate one from notes:\n  quizvox deck generate <name> notes.txt"
	return components.Card(lipgloss.NewStyle().Foreground(theme.TextDim).Render(text), cw)
}

// renderBanner renders a warning banner, e.g. when no LLM API key is configured.
func renderBanner(text string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + text)
}
