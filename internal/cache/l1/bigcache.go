package l1

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"go-query-cache/internal/config"
	"go-query-cache/internal/interfaces"
	"go-query-cache/internal/metrics"
	"go-query-cache/internal/models"
)

// Ensure BigCacheStore implements interfaces.Store
var _ interfaces.Store = (*BigCacheStore)(nil)

// metricsInterval is how often capacity gauges are refreshed
const metricsInterval = 30 * time.Second

// BigCacheStore implements the L1 store using BigCache
type BigCacheStore struct {
	cache  *bigcache.BigCache
	logger *zap.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// NewBigCacheStore creates a new BigCache-backed store
func NewBigCacheStore(bigcacheCfg *config.BigCacheConfig, logger *zap.Logger) (interfaces.Store, error) {
	cfg := bigcache.DefaultConfig(10 * time.Minute)
	cfg.HardMaxCacheSize = bigcacheCfg.SizeMB
	cfg.Verbose = false
	cfg.MaxEntrySize = bigcacheCfg.MaxEntryBytes

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	bs := &BigCacheStore{
		cache:  cache,
		logger: logger,
		done:   make(chan struct{}),
	}

	go bs.collectMetrics()

	return bs, nil
}

// collectMetrics periodically publishes the capacity gauges until the
// store is closed.
func (bs *BigCacheStore) collectMetrics() {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	bs.updateCapacityMetrics()

	for {
		select {
		case <-ticker.C:
			bs.updateCapacityMetrics()
		case <-bs.done:
			return
		}
	}
}

// updateCapacityMetrics publishes current store statistics
func (bs *BigCacheStore) updateCapacityMetrics() {
	capacity, used := bs.GetStats()
	metrics.UpdateStoreCapacity(capacity, used)
}

// Get retrieves a fresh-or-stale entry, dropping entries past retention
func (bs *BigCacheStore) Get(key string) (*models.CacheEntry, bool) {
	data, err := bs.cache.Get(key)
	if err != nil {
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		bs.logger.Warn("Failed to unmarshal L1 store entry", zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError("l1", "decode")
		bs.cache.Delete(key) // Remove corrupted entry
		return nil, false
	}

	if entry.IsExpired() {
		bs.cache.Delete(key)
		return nil, false
	}

	return &entry, true
}

// GetStale retrieves an entry regardless of freshness, as long as it is
// still within its retention window
func (bs *BigCacheStore) GetStale(key string) (*models.CacheEntry, bool) {
	data, err := bs.cache.Get(key)
	if err != nil {
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		bs.cache.Delete(key) // Remove corrupted entry
		return nil, false
	}

	if entry.IsExpired() {
		bs.cache.Delete(key)
		return nil, false
	}

	return &entry, true
}

// Set stores a value with freshness and retention windows
func (bs *BigCacheStore) Set(key string, val []byte, ttl models.TTL) {
	entry := models.NewCacheEntry(val, ttl)

	data, err := json.Marshal(entry)
	if err != nil {
		bs.logger.Error("Failed to marshal store entry", zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError("l1", "encode")
		return
	}

	if err := bs.cache.Set(key, data); err != nil {
		bs.logger.Error("Failed to set store entry", zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError("l1", "upstream")
		return
	}
}

// Delete removes an entry from the store
func (bs *BigCacheStore) Delete(key string) {
	if err := bs.cache.Delete(key); err != nil {
		return
	}
}

// Close stops metrics collection and closes the underlying cache
func (bs *BigCacheStore) Close() error {
	bs.closeOnce.Do(func() {
		close(bs.done)
	})
	return bs.cache.Close()
}

// GetStats returns store statistics for capacity metrics
func (bs *BigCacheStore) GetStats() (capacity, used int64) {
	stats := bs.cache.Stats()
	capacity = int64(bs.cache.Capacity())
	used = int64(stats.Hits + stats.Misses) // approximate usage based on operations

	return capacity, used
}
