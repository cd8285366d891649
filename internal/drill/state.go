package drill

import "time"

// State is the controller's current phase. Exactly one is active at a time.
type State int32

const (
	Idle State = iota
	Speaking
	Listening
	Transcribing
	Evaluating
	AwaitingRepeat
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Speaking:
		return "speaking"
	case Listening:
		return "listening"
	case Transcribing:
		return "transcribing"
	case Evaluating:
		return "evaluating"
	case AwaitingRepeat:
		return "awaiting-repeat"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Sender identifies who a transcript message comes from.
type Sender string

const (
	SenderUser    Sender = "user"
	SenderPartner Sender = "partner"
	SenderSystem  Sender = "system"
)

// Message is one line of the drill transcript.
type Message struct {
	Sender Sender
	Text   string
	At     time.Time
}
