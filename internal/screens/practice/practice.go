// Package practice is the screen that runs a spoken drill over one deck.
package practice

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizvox/internal/drill"
	"github.com/abhisek/quizvox/internal/router"
	"github.com/abhisek/quizvox/internal/screen"
	summaryscreen "github.com/abhisek/quizvox/internal/screens/summary"
	"github.com/abhisek/quizvox/internal/ui/components"
	"github.com/abhisek/quizvox/internal/ui/layout"
)

// Session is the part of *drill.Controller the screen drives.
type Session interface {
	Start()
	Repeat(yes bool)
	Interrupt()
	Cancel()
	Done() <-chan struct{}
	Progress() (current, total int)
}

var _ Session = (*drill.Controller)(nil)

// OpenFunc wires a session reporting to obs. It runs off the UI goroutine
// and may block on network or device setup.
type OpenFunc func(ctx context.Context, obs drill.Observer) (Session, error)

// PracticeScreen shows the live transcript of a drill and forwards the
// user's key presses to the controller.
type PracticeScreen struct {
	deckName string
	phrases  drill.Phrases
	open     OpenFunc
	bridge   *bridge

	session  Session
	state    drill.State
	lines    []drill.Message
	finished bool
	err      error

	viewport viewport.Model
	spinner  spinner.Model
	choice   components.Choice
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)
var _ screen.EscapeHandler = (*PracticeScreen)(nil)
var _ screen.Closer = (*PracticeScreen)(nil)

// New creates a PracticeScreen for the named deck. The session is opened
// when the screen is pushed.
func New(deckName string, phrases drill.Phrases, open OpenFunc) *PracticeScreen {
	vp := viewport.New(viewport.WithWidth(60), viewport.WithHeight(10))
	vp.SoftWrap = true
	return &PracticeScreen{
		deckName: deckName,
		phrases:  phrases,
		open:     open,
		bridge:   newBridge(),
		viewport: vp,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		choice:   components.NewChoice(phrases.Yes, phrases.No),
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return tea.Batch(s.openSession(), s.spinner.Tick)
}

func (s *PracticeScreen) Title() string {
	return "Drill"
}

func (s *PracticeScreen) Status() string {
	if s.session == nil {
		return s.deckName
	}
	cur, total := s.session.Progress()
	if cur == 0 {
		return s.deckName
	}
	return fmt.Sprintf("%s  %d/%d", s.deckName, cur, total)
}

// Recording reports whether the microphone is live.
func (s *PracticeScreen) Recording() bool {
	return s.err == nil && s.state == drill.Listening
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.err != nil {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	switch s.state {
	case drill.Listening:
		return []layout.KeyHint{
			{Key: "Space", Description: "Done answering"},
			{Key: "↑↓", Description: "Scroll"},
			{Key: "Esc", Description: "End drill"},
		}
	case drill.AwaitingRepeat:
		return []layout.KeyHint{
			{Key: "←→", Description: "Choose"},
			{Key: "Enter", Description: "Confirm"},
			{Key: "Esc", Description: "End drill"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "End drill"},
	}
}

// HandlesEscape reports whether Esc ends the drill instead of popping the
// screen.
func (s *PracticeScreen) HandlesEscape() bool {
	return s.session != nil && !s.finished
}

// Close cancels a running session and waits for it to shut down.
func (s *PracticeScreen) Close() {
	if s.session != nil && !s.finished {
		s.session.Cancel()
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionOpenedMsg:
		return s.handleOpened(msg)

	case eventsMsg:
		return s.handleEvents(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case components.ChoiceMsg:
		return s, s.repeat(msg.Index == 0)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// openSession wires the backends and starts the controller.
func (s *PracticeScreen) openSession() tea.Cmd {
	open := s.open
	obs := s.bridge
	return func() tea.Msg {
		sess, err := open(context.Background(), obs)
		if err != nil {
			return sessionOpenedMsg{Err: err}
		}
		sess.Start()
		return sessionOpenedMsg{Session: sess}
	}
}

func (s *PracticeScreen) handleOpened(msg sessionOpenedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.err = msg.Err
		return s, nil
	}
	s.session = msg.Session
	return s, s.bridge.next()
}

func (s *PracticeScreen) handleEvents(msg eventsMsg) (screen.Screen, tea.Cmd) {
	for _, ev := range msg.Events {
		switch ev := ev.(type) {
		case drill.Message:
			s.lines = append(s.lines, ev)
		case drill.State:
			if ev == drill.AwaitingRepeat && s.state != drill.AwaitingRepeat {
				s.choice = components.NewChoice(s.phrases.Yes, s.phrases.No)
			}
			s.state = ev
		case summaryEvent:
			s.finished = true
			next := summaryscreen.New(s.deckName, s.phrases.Labels, ev.Buckets)
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	s.refreshTranscript()
	return s, s.bridge.next()
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.err != nil {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.session == nil || s.finished {
		return s, nil
	}

	switch msg.String() {
	case "esc":
		return s, s.cancel()
	case "up", "down", "pgup", "pgdown":
		s.viewport, _ = s.viewport.Update(msg)
		return s, nil
	}

	switch s.state {
	case drill.Listening:
		switch msg.String() {
		case "space", "enter":
			return s, s.interrupt()
		}
	case drill.AwaitingRepeat:
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		return s, cmd
	}
	return s, nil
}

// Controller calls may wait on its inbox, so they run as commands.

func (s *PracticeScreen) interrupt() tea.Cmd {
	sess := s.session
	return func() tea.Msg {
		sess.Interrupt()
		return nil
	}
}

func (s *PracticeScreen) repeat(yes bool) tea.Cmd {
	if s.session == nil || s.state != drill.AwaitingRepeat {
		return nil
	}
	sess := s.session
	return func() tea.Msg {
		sess.Repeat(yes)
		return nil
	}
}

func (s *PracticeScreen) cancel() tea.Cmd {
	sess := s.session
	return func() tea.Msg {
		sess.Cancel()
		return nil
	}
}
