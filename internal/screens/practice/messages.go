package practice

import (
	"github.com/abhisek/quizvox/internal/summary"
)

// sessionOpenedMsg is sent once the drill backends are wired and the
// controller has been started.
type sessionOpenedMsg struct {
	Session Session
	Err     error
}

// eventsMsg carries controller events drained from the bridge, in order.
// Each element is a drill.Message, a drill.State or a summaryEvent.
type eventsMsg struct {
	Events []any
}

// summaryEvent is the final event of a session.
type summaryEvent struct {
	Text    string
	Buckets summary.Buckets
}
