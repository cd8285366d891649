package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizvox/internal/router"
	"github.com/abhisek/quizvox/internal/screen"
	"github.com/abhisek/quizvox/internal/summary"
	"github.com/abhisek/quizvox/internal/ui/layout"
	"github.com/abhisek/quizvox/internal/ui/theme"
)

// SummaryScreen displays the end-of-drill report.
type SummaryScreen struct {
	deckName string
	labels   summary.Labels
	buckets  summary.Buckets
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.StatusProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(deckName string, labels summary.Labels, buckets summary.Buckets) *SummaryScreen {
	return &SummaryScreen{deckName: deckName, labels: labels, buckets: buckets}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return s.labels.Title
}

func (s *SummaryScreen) Status() string {
	return s.deckName
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Width(width).Render(s.labels.Title))
	b.WriteString("\n\n")

	if s.deckName != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(s.deckName))
		b.WriteString("\n\n")
	}

	cw := min(width-8, 60)
	sections := []string{
		renderBucket(s.labels.Good, s.labels.NoneGood, s.buckets.Good, theme.Good, cw),
		renderBucket(s.labels.Medium, s.labels.NoneMedium, s.buckets.Medium, theme.Medium, cw),
		renderBucket(s.labels.Bad, s.labels.NoneBad, s.buckets.Bad, theme.Bad, cw),
	}
	for _, section := range sections {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, section))
		b.WriteString("\n\n")
	}

	return b.String()
}

// renderBucket renders one heading with its questions, or the placeholder
// when the bucket is empty.
func renderBucket(heading, none string, questions []string, style lipgloss.Style, width int) string {
	var b strings.Builder
	b.WriteString(style.Render(fmt.Sprintf("%s (%d)", heading, len(questions))))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width, 0))))
	b.WriteString("\n")

	item := theme.Body.Width(width)
	if len(questions) == 0 {
		b.WriteString(theme.Hint.Render(none))
		return lipgloss.NewStyle().Width(width).Render(b.String())
	}
	for i, q := range questions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(item.Render("- " + q))
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}
