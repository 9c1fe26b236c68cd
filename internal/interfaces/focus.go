package interfaces

//go:generate mockgen -package=mock -source=focus.go -destination=mock/focus.go

// FocusSource delivers application focus-regained events. Hosts without a
// focus concept (headless and server contexts) provide a source whose
// channel never fires.
type FocusSource interface {
	// Focus returns a channel that receives one value each time the
	// application regains focus.
	Focus() <-chan struct{}

	// Close releases any resources held by the source.
	Close() error
}
