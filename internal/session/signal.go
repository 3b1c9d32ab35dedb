package session

import "sync"

// Signal is a set-once cancellation flag shared between the orchestrator and
// exactly one notifier task. It starts unset and can never be reset.
type Signal struct {
	once sync.Once
	ch   chan struct{}
}

// NewSignal returns an unset signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Set marks the signal. It reports whether this call performed the transition.
func (s *Signal) Set() bool {
	transitioned := false
	s.once.Do(func() {
		close(s.ch)
		transitioned = true
	})
	return transitioned
}

// IsSet reports whether Set has been called.
func (s *Signal) IsSet() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Done is closed once the signal is set.
func (s *Signal) Done() <-chan struct{} {
	return s.ch
}
