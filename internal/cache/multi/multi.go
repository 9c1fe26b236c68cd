package multi

import (
	"time"

	"go.uber.org/zap"

	"go-query-cache/internal/interfaces"
	"go-query-cache/internal/models"
)

// Ensure MultiStore implements interfaces.Store
var _ interfaces.Store = (*MultiStore)(nil)

// MultiStore is a composite store that tries multiple store backends in
// order on reads and fans writes out to all of them. With propagation
// enabled, a hit in a lower store is written back to the stores in front
// of it.
type MultiStore struct {
	stores    []interfaces.Store
	logger    *zap.Logger
	propagate bool
}

// NewMultiStore creates a new MultiStore with the provided backends
func NewMultiStore(stores []interfaces.Store, logger *zap.Logger, propagate bool) interfaces.Store {
	return &MultiStore{
		stores:    stores,
		logger:    logger,
		propagate: propagate,
	}
}

// Get retrieves an entry from the first store that has the key
func (ms *MultiStore) Get(key string) (*models.CacheEntry, bool) {
	if len(ms.stores) == 0 {
		ms.logger.Warn("No stores available for get operation", zap.String("key", key))
		return nil, false
	}

	for i, store := range ms.stores {
		entry, found := store.Get(key)
		if found {
			if ms.propagate && i > 0 {
				ms.propagateEntry(key, entry, i)
			}
			return entry, true
		}
	}
	return nil, false
}

// GetStale retrieves a stale entry from the first store that has the key
func (ms *MultiStore) GetStale(key string) (*models.CacheEntry, bool) {
	if len(ms.stores) == 0 {
		return nil, false
	}

	for _, store := range ms.stores {
		entry, found := store.GetStale(key)
		if found {
			return entry, true
		}
	}
	return nil, false
}

// Set stores the value in all backends
func (ms *MultiStore) Set(key string, val []byte, ttl models.TTL) {
	if len(ms.stores) == 0 {
		ms.logger.Warn("No stores available for set operation", zap.String("key", key))
		return
	}

	for _, store := range ms.stores {
		store.Set(key, val, ttl)
	}
}

// Delete removes the entry from all backends
func (ms *MultiStore) Delete(key string) {
	if len(ms.stores) == 0 {
		ms.logger.Warn("No stores available for delete operation", zap.String("key", key))
		return
	}

	for _, store := range ms.stores {
		store.Delete(key)
	}
}

// StoreCount returns the number of backends in the composite
func (ms *MultiStore) StoreCount() int {
	return len(ms.stores)
}

// propagateEntry writes an entry found at stores[level] into the stores
// before it, preserving the entry's remaining windows.
func (ms *MultiStore) propagateEntry(key string, entry *models.CacheEntry, level int) {
	ttl := remainingTTL(entry)
	if ttl.Fresh <= 0 && ttl.Retain <= 0 {
		return
	}
	for i := 0; i < level; i++ {
		ms.stores[i].Set(key, entry.Data, ttl)
	}
}

// remainingTTL converts an entry's absolute timestamps back into windows
// relative to now.
func remainingTTL(entry *models.CacheEntry) models.TTL {
	now := time.Now().Unix()
	fresh := entry.StaleAt - now
	if fresh < 0 {
		fresh = 0
	}
	retain := entry.ExpiresAt - now - fresh
	if retain < 0 {
		retain = 0
	}
	return models.TTL{
		Fresh:  time.Duration(fresh) * time.Second,
		Retain: time.Duration(retain) * time.Second,
	}
}
