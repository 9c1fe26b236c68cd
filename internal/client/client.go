package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"go-query-cache/internal/cache"
	"go-query-cache/internal/config"
	"go-query-cache/internal/interfaces"
	"go-query-cache/internal/metrics"
	"go-query-cache/internal/models"
)

// refetchTimeout bounds background refetches, which run detached from any
// caller context.
const refetchTimeout = 30 * time.Second

// Client is the data-fetching cache client. It serves queries from the
// store with stale-while-revalidate semantics, deduplicates concurrent
// identical fetches, retries failed fetches, evicts entries unused past
// the retention window and refetches active queries when the application
// regains focus.
type Client struct {
	cfg        config.ClientConfig
	store      interfaces.Store
	keyBuilder interfaces.KeyBuilder
	classifier interfaces.QueryClassifier
	focus      interfaces.FocusSource
	logger     *zap.Logger
	clk        clock.Clock

	group singleflight.Group

	mu      sync.Mutex
	queries map[string]*queryState
	closed  bool

	done chan struct{}
	wg   sync.WaitGroup
}

// queryState tracks one known query for focus refetch and retention.
type queryState struct {
	req         models.QueryRequest
	fetch       interfaces.Fetcher
	subscribers int
	lastActive  time.Time
}

// Result is the outcome of a query
type Result struct {
	Data   []byte
	Status models.QueryStatus
	Key    string
}

// New creates a new Client. focus may be nil for hosts without a focus
// concept; refetch-on-focus is then a no-op.
func New(cfg config.ClientConfig, store interfaces.Store, classifier interfaces.QueryClassifier, focus interfaces.FocusSource, logger *zap.Logger) *Client {
	return NewWithClock(cfg, store, classifier, focus, logger, clock.New())
}

// NewWithClock is New with an injectable clock for tests.
func NewWithClock(cfg config.ClientConfig, store interfaces.Store, classifier interfaces.QueryClassifier, focus interfaces.FocusSource, logger *zap.Logger, clk clock.Clock) *Client {
	c := &Client{
		cfg:        cfg,
		store:      store,
		keyBuilder: cache.NewKeyBuilder(),
		classifier: classifier,
		focus:      focus,
		logger:     logger,
		clk:        clk,
		queries:    make(map[string]*queryState),
		done:       make(chan struct{}),
	}

	c.wg.Add(1)
	go c.janitorLoop()

	if c.cfg.RefetchOnFocus && c.focus != nil {
		c.wg.Add(1)
		go c.focusLoop()
	}

	return c
}

// Query answers one query. Behavior by cache state:
//   - fresh hit: the cached value is returned, no fetch happens;
//   - stale hit: the cached value is returned immediately and a
//     background refetch is triggered;
//   - miss: the fetcher runs (with retries), the result is stored and
//     returned.
func (c *Client) Query(ctx context.Context, req models.QueryRequest, fetch interfaces.Fetcher) (*Result, error) {
	info := c.classifier.Resolve(&req)
	metrics.RecordQueryRequest(string(info.Class))

	key, err := c.keyBuilder.Build(&req)
	if err != nil {
		return nil, fmt.Errorf("failed to build cache key: %w", err)
	}

	if info.Bypass() {
		data, err := c.fetchWithRetry(ctx, fetch)
		if err != nil {
			return nil, err
		}
		return &Result{Data: data, Status: models.QueryStatusBypass, Key: key}, nil
	}

	c.register(key, req, fetch)

	if entry, found := c.store.Get(key); found {
		if entry.IsFresh() {
			metrics.RecordQueryHit(string(info.Class), true)
			return &Result{Data: entry.Data, Status: models.QueryStatusFresh, Key: key}, nil
		}

		// Stale-while-revalidate: serve the cached value, refresh behind
		// the caller's back.
		metrics.RecordQueryHit(string(info.Class), false)
		c.refetchAsync(key, fetch, info.TTL, models.RefetchReasonStale)
		return &Result{Data: entry.Data, Status: models.QueryStatusStale, Key: key}, nil
	}

	metrics.RecordQueryMiss(string(info.Class))

	data, err := c.fetchAndStore(ctx, key, fetch, info.TTL)
	if err != nil {
		// Stale-if-error: a concurrent writer (another process sharing
		// the L2 store, or an in-flight refetch) may have retained a
		// serveable entry while the origin was failing.
		if entry, found := c.store.GetStale(key); found {
			c.logger.Warn("Serving retained entry after fetch failure",
				zap.String("key", key), zap.Error(err))
			metrics.RecordQueryHit(string(info.Class), false)
			return &Result{Data: entry.Data, Status: models.QueryStatusStale, Key: key}, nil
		}
		return nil, err
	}
	return &Result{Data: data, Status: models.QueryStatusFetched, Key: key}, nil
}

// Mutate runs a mutation against the origin and invalidates the given
// queries on success. Mutations are never retried.
func (c *Client) Mutate(ctx context.Context, mutate interfaces.Fetcher, invalidate ...models.QueryRequest) ([]byte, error) {
	data, err := mutate(ctx)
	if err != nil {
		return nil, fmt.Errorf("mutation failed: %w", err)
	}

	if err := c.InvalidateBatch(invalidate); err != nil {
		c.logger.Warn("Failed to invalidate queries after mutation", zap.Error(err))
	}

	return data, nil
}

// Invalidate drops the cached result for a query. If the query has active
// subscribers a background refetch is started so they converge on fresh
// data.
func (c *Client) Invalidate(req models.QueryRequest) error {
	key, err := c.keyBuilder.Build(&req)
	if err != nil {
		return fmt.Errorf("failed to build cache key: %w", err)
	}

	c.invalidateKey(key, &req)
	return nil
}

// InvalidateBatch drops the cached results for several queries at once.
// All keys are built up front, so a malformed request fails the whole
// batch before anything is dropped.
func (c *Client) InvalidateBatch(reqs []models.QueryRequest) error {
	if len(reqs) == 0 {
		return nil
	}

	keys, err := c.keyBuilder.BuildBatch(reqs)
	if err != nil {
		return fmt.Errorf("failed to build cache keys: %w", err)
	}

	for i := range keys {
		c.invalidateKey(keys[i], &reqs[i])
	}
	return nil
}

// invalidateKey drops one entry and refetches it when subscribers are
// still watching.
func (c *Client) invalidateKey(key string, req *models.QueryRequest) {
	c.store.Delete(key)

	c.mu.Lock()
	st, ok := c.queries[key]
	var fetch interfaces.Fetcher
	active := false
	if ok {
		active = st.subscribers > 0
		fetch = st.fetch
	}
	c.mu.Unlock()

	if active && fetch != nil {
		info := c.classifier.Resolve(req)
		if !info.Bypass() {
			c.refetchAsync(key, fetch, info.TTL, models.RefetchReasonInvalidate)
		}
	}
}

// Subscribe marks a query active until the returned function is called.
// Active queries are refetched on focus regain and are exempt from
// retention eviction.
func (c *Client) Subscribe(req models.QueryRequest, fetch interfaces.Fetcher) (func(), error) {
	key, err := c.keyBuilder.Build(&req)
	if err != nil {
		return nil, fmt.Errorf("failed to build cache key: %w", err)
	}

	c.mu.Lock()
	st, ok := c.queries[key]
	if !ok {
		st = &queryState{req: req}
		c.queries[key] = st
	}
	st.fetch = fetch
	st.subscribers++
	st.lastActive = c.clk.Now()
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if st, ok := c.queries[key]; ok && st.subscribers > 0 {
				st.subscribers--
				st.lastActive = c.clk.Now()
			}
		})
	}, nil
}

// Close stops the background loops and waits for in-flight refetches.
// The store and focus source are owned by the caller and stay open.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	close(c.done)
	c.wg.Wait()
}

// register records that a query was just issued so the janitor and focus
// loops know about it.
func (c *Client) register(key string, req models.QueryRequest, fetch interfaces.Fetcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.queries[key]
	if !ok {
		st = &queryState{req: req}
		c.queries[key] = st
	}
	st.fetch = fetch
	st.lastActive = c.clk.Now()
}

// fetchAndStore runs the fetcher through singleflight so concurrent
// identical queries share one origin call, then stores the result.
func (c *Client) fetchAndStore(ctx context.Context, key string, fetch interfaces.Fetcher, ttl models.TTL) ([]byte, error) {
	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		data, err := c.fetchWithRetry(ctx, fetch)
		if err != nil {
			return nil, err
		}
		c.store.Set(key, data, ttl)
		return data, nil
	})
	if shared {
		metrics.RecordDedupedFetch()
	}
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// fetchWithRetry runs the fetcher, retrying RetryCount times before
// surfacing the error. A canceled context stops the retries.
func (c *Client) fetchWithRetry(ctx context.Context, fetch interfaces.Fetcher) ([]byte, error) {
	stop := metrics.TimeFetch()
	defer stop()

	var lastErr error
	for attempt := 0; attempt <= c.cfg.RetryCount; attempt++ {
		if attempt > 0 {
			metrics.RecordFetchRetry()
		}

		data, err := fetch(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("query fetch failed after %d attempt(s): %w", c.cfg.RetryCount+1, lastErr)
}

// refetchAsync refreshes one entry in the background, never blocking the
// caller.
func (c *Client) refetchAsync(key string, fetch interfaces.Fetcher, ttl models.TTL, reason models.RefetchReason) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		metrics.RecordRefetch(string(reason))

		ctx, cancel := context.WithTimeout(context.Background(), refetchTimeout)
		defer cancel()

		if _, err := c.fetchAndStore(ctx, key, fetch, ttl); err != nil {
			c.logger.Warn("Background refetch failed",
				zap.String("key", key),
				zap.String("reason", string(reason)),
				zap.Error(err))
		}
	}()
}

// janitorLoop periodically evicts entries whose queries have no
// subscribers and have not been accessed within the retention window.
func (c *Client) janitorLoop() {
	defer c.wg.Done()

	ticker := c.clk.Ticker(c.sweepInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

// sweepInterval derives the janitor period from the retention window,
// bounded to stay responsive without busy-waking.
func (c *Client) sweepInterval() time.Duration {
	interval := c.cfg.GCTime() / 10
	if interval < time.Second {
		interval = time.Second
	}
	if interval > 30*time.Second {
		interval = 30 * time.Second
	}
	return interval
}

// sweep evicts retention-expired queries from the registry and the store.
func (c *Client) sweep() {
	now := c.clk.Now()
	gc := c.cfg.GCTime()

	c.mu.Lock()
	var evict []string
	for key, st := range c.queries {
		if st.subscribers == 0 && now.Sub(st.lastActive) >= gc {
			evict = append(evict, key)
			delete(c.queries, key)
		}
	}
	c.mu.Unlock()

	for _, key := range evict {
		c.store.Delete(key)
		metrics.RecordGCEviction()
	}

	if len(evict) > 0 {
		c.logger.Debug("Evicted unused query entries", zap.Int("count", len(evict)))
	}
}

// focusLoop refetches active queries whenever the application regains
// focus.
func (c *Client) focusLoop() {
	defer c.wg.Done()

	for {
		select {
		case _, ok := <-c.focus.Focus():
			if !ok {
				return
			}
			c.refetchActive()
		case <-c.done:
			return
		}
	}
}

// refetchActive starts a background refetch for every query with at least
// one subscriber.
func (c *Client) refetchActive() {
	type target struct {
		key   string
		req   models.QueryRequest
		fetch interfaces.Fetcher
	}

	c.mu.Lock()
	targets := make([]target, 0, len(c.queries))
	for key, st := range c.queries {
		if st.subscribers > 0 && st.fetch != nil {
			targets = append(targets, target{key: key, req: st.req, fetch: st.fetch})
		}
	}
	c.mu.Unlock()

	if len(targets) == 0 {
		return
	}

	c.logger.Debug("Focus regained, refetching active queries", zap.Int("count", len(targets)))

	for i := range targets {
		info := c.classifier.Resolve(&targets[i].req)
		if info.Bypass() {
			continue
		}
		c.refetchAsync(targets[i].key, targets[i].fetch, info.TTL, models.RefetchReasonFocus)
	}
}
