package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizvox/internal/router"
	"github.com/abhisek/quizvox/internal/screen"
	"github.com/abhisek/quizvox/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	pending []screen.Screen
	width   int
	height  int
}

// newAppModel creates a new AppModel starting at initial, with pending
// pushed on top of it once initial has loaded.
func newAppModel(initial screen.Screen, pending ...screen.Screen) AppModel {
	return AppModel{
		router:  router.New(initial),
		pending: pending,
	}
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init()}
	for _, s := range m.pending {
		cmds = append(cmds, func() tea.Msg { return router.PushScreenMsg{Screen: s} })
	}
	return tea.Sequence(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if closeCmd := m.closeActive(); closeCmd != nil {
				return m, tea.Sequence(closeCmd, tea.Quit)
			}
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// closeActive releases the active screen's resources, e.g. a running drill.
func (m AppModel) closeActive() tea.Cmd {
	c, ok := m.router.Active().(screen.Closer)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		c.Close()
		return nil
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var h layout.Header
	if active != nil {
		h.Title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			h.Status = sp.Status()
		}
		if ri, ok := active.(screen.RecordingIndicator); ok {
			h.Recording = ri.Recording()
		}
	}

	header := layout.RenderHeader(h, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(kp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	frame := layout.RenderFrame(header, m.router.View(m.width, contentHeight), footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program at the initial screen. Screens in
// pending are opened on top of it, e.g. a drill started from the command
// line.
func Run(initial screen.Screen, pending ...screen.Screen) error {
	p := tea.NewProgram(newAppModel(initial, pending...))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
