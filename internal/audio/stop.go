package audio

import "sync"

// StopSignal is a one-shot flag shared between the controller and a
// background recorder. Raising it more than once has no further effect.
type StopSignal struct {
	once sync.Once
	ch   chan struct{}
}

// NewStopSignal returns a lowered signal.
func NewStopSignal() *StopSignal {
	return &StopSignal{ch: make(chan struct{})}
}

// Raise sets the signal.
func (s *StopSignal) Raise() {
	s.once.Do(func() { close(s.ch) })
}

// Raised reports whether Raise has been called.
func (s *StopSignal) Raised() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Done is closed once the signal is raised.
func (s *StopSignal) Done() <-chan struct{} {
	return s.ch
}
