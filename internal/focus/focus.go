// Package focus provides FocusSource implementations. Hosts with a real
// focus concept use SignalSource or push events through a ManualSource;
// headless and server contexts use NopSource, which never fires.
package focus

import (
	"sync"

	"go-query-cache/internal/interfaces"
)

// Ensure implementations satisfy interfaces.FocusSource
var (
	_ interfaces.FocusSource = (*NopSource)(nil)
	_ interfaces.FocusSource = (*ManualSource)(nil)
)

// NopSource is a focus source that never fires, for hosts without a
// focus concept.
type NopSource struct{}

// NewNopSource creates a new NopSource
func NewNopSource() *NopSource {
	return &NopSource{}
}

// Focus returns a nil channel, which never delivers
func (s *NopSource) Focus() <-chan struct{} {
	return nil
}

// Close does nothing
func (s *NopSource) Close() error {
	return nil
}

// ManualSource is a focus source driven by explicit Notify calls, for
// hosts that observe focus through their own event loop and for tests.
type ManualSource struct {
	ch     chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewManualSource creates a new ManualSource
func NewManualSource() *ManualSource {
	return &ManualSource{ch: make(chan struct{}, 1)}
}

// Notify signals that the application regained focus. Events are
// coalesced: a notification while one is pending is dropped.
func (s *ManualSource) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Focus returns the event channel
func (s *ManualSource) Focus() <-chan struct{} {
	return s.ch
}

// Close closes the event channel
func (s *ManualSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.ch)
	return nil
}
