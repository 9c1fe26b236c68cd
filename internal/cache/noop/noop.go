package noop

import (
	"go-query-cache/internal/interfaces"
	"go-query-cache/internal/models"
)

// Ensure NoOpStore implements interfaces.Store
var _ interfaces.Store = (*NoOpStore)(nil)

// NoOpStore is a no-operation store implementation for disabled levels
type NoOpStore struct{}

// NewNoOpStore creates a new no-operation store instance
func NewNoOpStore() interfaces.Store {
	return &NoOpStore{}
}

// Get always returns a miss
func (n *NoOpStore) Get(key string) (*models.CacheEntry, bool) {
	return nil, false
}

// GetStale always returns a miss
func (n *NoOpStore) GetStale(key string) (*models.CacheEntry, bool) {
	return nil, false
}

// Set does nothing
func (n *NoOpStore) Set(key string, val []byte, ttl models.TTL) {
	// No-op
}

// Delete does nothing
func (n *NoOpStore) Delete(key string) {
	// No-op
}
