package interfaces

import "context"

// Fetcher retrieves the value for one query from its origin. The client
// calls it on cache misses and for background refetches. Implementations
// must honor ctx cancellation.
type Fetcher func(ctx context.Context) ([]byte, error)
