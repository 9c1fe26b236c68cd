package focus

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go-query-cache/internal/interfaces"
)

// Ensure SignalSource implements interfaces.FocusSource
var _ interfaces.FocusSource = (*SignalSource)(nil)

// SignalSource treats SIGCONT as a focus-regained event. Resuming a
// suspended process is the closest analog a terminal host has to an
// application coming back to the foreground.
type SignalSource struct {
	ch      chan struct{}
	sigs    chan os.Signal
	stop    chan struct{}
	stopped sync.Once
}

// NewSignalSource creates a SignalSource and starts listening
func NewSignalSource() *SignalSource {
	s := &SignalSource{
		ch:   make(chan struct{}, 1),
		sigs: make(chan os.Signal, 1),
		stop: make(chan struct{}),
	}

	signal.Notify(s.sigs, syscall.SIGCONT)

	go s.loop()

	return s
}

func (s *SignalSource) loop() {
	for {
		select {
		case <-s.sigs:
			select {
			case s.ch <- struct{}{}:
			default:
			}
		case <-s.stop:
			return
		}
	}
}

// Focus returns the event channel
func (s *SignalSource) Focus() <-chan struct{} {
	return s.ch
}

// Close stops listening for signals
func (s *SignalSource) Close() error {
	s.stopped.Do(func() {
		signal.Stop(s.sigs)
		close(s.stop)
	})
	return nil
}
