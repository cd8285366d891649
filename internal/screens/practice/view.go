package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizvox/internal/drill"
	"github.com/abhisek/quizvox/internal/ui/components"
	"github.com/abhisek/quizvox/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	if s.err != nil {
		return renderError(width, s.err)
	}
	if s.session == nil {
		return renderLoading(width, s.spinner.View())
	}

	cw := components.ContentWidth(width)

	top := s.renderProgress(cw) + "\n" + s.renderStatus(cw)
	bottom := s.renderPrompt(cw)

	vpHeight := height - lipgloss.Height(top) - lipgloss.Height(bottom) - 3
	s.viewport.SetWidth(cw)
	s.viewport.SetHeight(max(vpHeight, 3))

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
	body := strings.Join([]string{top, divider, s.viewport.View(), divider, bottom}, "\n")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

// refreshTranscript re-renders the message list and keeps the view pinned
// to the newest line unless the user has scrolled up.
func (s *PracticeScreen) refreshTranscript() {
	follow := s.viewport.AtBottom() || s.viewport.TotalLineCount() <= s.viewport.Height()
	lines := make([]string, 0, len(s.lines))
	for _, m := range s.lines {
		lines = append(lines, s.renderMessage(m))
	}
	s.viewport.SetContent(strings.Join(lines, "\n"))
	if follow {
		s.viewport.GotoBottom()
	}
}

func (s *PracticeScreen) renderMessage(m drill.Message) string {
	ts := theme.Timestamp.Render(m.At.Format("15:04:05"))
	switch m.Sender {
	case drill.SenderUser:
		return fmt.Sprintf("%s %s %s", ts, theme.UserName.Render(s.phrases.You+":"), m.Text)
	case drill.SenderPartner:
		return fmt.Sprintf("%s %s %s", ts, theme.PartnerName.Render(s.phrases.Partner+":"), m.Text)
	default:
		return fmt.Sprintf("%s %s", ts, theme.SystemLine.Render(m.Text))
	}
}

func (s *PracticeScreen) renderProgress(width int) string {
	cur, total := s.session.Progress()
	return components.NewProgressBar(s.deckName, cur, total, width).View()
}

func (s *PracticeScreen) renderStatus(width int) string {
	label := stateLabel(s.state)
	switch s.state {
	case drill.Speaking, drill.Transcribing, drill.Evaluating:
		label = s.spinner.View() + " " + label
	case drill.Listening:
		label = lipgloss.NewStyle().Foreground(theme.Error).Render("●") + " " + label
	}
	return lipgloss.NewStyle().Width(width).Foreground(theme.TextDim).Render(label)
}

func (s *PracticeScreen) renderPrompt(width int) string {
	switch s.state {
	case drill.AwaitingRepeat:
		prompt := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(s.phrases.RepeatPrompt)
		return prompt + "\n\n" + s.choice.View()
	case drill.Listening:
		return theme.Hint.Render("Press space when you are done answering.")
	}
	return ""
}

func stateLabel(st drill.State) string {
	switch st {
	case drill.Idle:
		return "Starting..."
	case drill.Speaking:
		return "Speaking..."
	case drill.Listening:
		return "Listening"
	case drill.Transcribing:
		return "Transcribing..."
	case drill.Evaluating:
		return "Evaluating..."
	case drill.AwaitingRepeat:
		return "Round complete"
	default:
		return "Finished"
	}
}

// renderLoading renders the view shown while the backends are wired.
func renderLoading(width int, spin string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  " + spin + " Preparing your drill...")
}

// renderError renders an error message.
func renderError(width int, err error) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", err))
}
