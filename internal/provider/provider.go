// Package provider owns the single cache client instance of an
// application session and makes it reachable without explicit parameter
// threading: directly via Client(), ambiently via context helpers, and
// for HTTP trees via Middleware.
package provider

import (
	"context"
	"net/http"
	"sync"

	"go-query-cache/internal/client"
)

// Provider owns exactly one client instance for its lifetime. The
// instance is constructed lazily on first use and its identity never
// changes until the provider is closed. A new provider yields a new,
// distinct instance.
type Provider struct {
	newClient func() *client.Client

	mu     sync.Mutex
	client *client.Client
	closed bool
}

// New creates a Provider around a client constructor. The constructor is
// invoked at most once, on first access.
func New(newClient func() *client.Client) *Provider {
	return &Provider{newClient: newClient}
}

// Client returns the session's client, constructing it on first call.
// Every subsequent call returns the identical instance. After Close it
// returns nil: the session is over and no new instance may be created.
func (p *Provider) Client() *client.Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil && !p.closed {
		p.client = p.newClient()
	}
	return p.client
}

// Close ends the session and releases the client. Safe to call on a
// provider whose client was never constructed, and safe against a
// concurrent first Client() call.
func (p *Provider) Close() {
	p.mu.Lock()
	c := p.client
	p.closed = true
	p.mu.Unlock()

	if c != nil {
		c.Close()
	}
}

// Middleware injects the provider's client into each request context and
// otherwise passes the wrapped handler through unchanged. Handlers at any
// depth below it resolve the same instance with FromContext.
func (p *Provider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), p.Client())))
	})
}

type contextKey struct{}

// NewContext returns a context carrying the client.
func NewContext(ctx context.Context, c *client.Client) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext retrieves the client bound by NewContext or Middleware.
func FromContext(ctx context.Context) (*client.Client, bool) {
	c, ok := ctx.Value(contextKey{}).(*client.Client)
	return c, ok && c != nil
}
