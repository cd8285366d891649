package practice

import (
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizvox/internal/drill"
	"github.com/abhisek/quizvox/internal/summary"
)

// bridge is the drill.Observer handed to the controller. It queues events
// without ever blocking the controller goroutine; the screen pulls them
// with next.
type bridge struct {
	mu     sync.Mutex
	events []any
	notify chan struct{}
}

var _ drill.Observer = (*bridge)(nil)

func newBridge() *bridge {
	return &bridge{notify: make(chan struct{}, 1)}
}

func (b *bridge) Message(m drill.Message) { b.push(m) }

func (b *bridge) StateChanged(s drill.State) { b.push(s) }

func (b *bridge) SummaryReady(text string, buckets summary.Buckets) {
	b.push(summaryEvent{Text: text, Buckets: buckets})
}

func (b *bridge) push(ev any) {
	b.mu.Lock()
	b.events = append(b.events, ev)
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// drain returns and clears the queued events.
func (b *bridge) drain() []any {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.events
	b.events = nil
	return events
}

// next waits for at least one push and returns everything queued so far.
func (b *bridge) next() tea.Cmd {
	return func() tea.Msg {
		<-b.notify
		return eventsMsg{Events: b.drain()}
	}
}
