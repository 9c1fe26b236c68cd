package cache

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"

	"go-query-cache/internal/interfaces"
	"go-query-cache/internal/models"
)

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() interfaces.KeyBuilder {
	return &KeyBuilderImpl{}
}

// Build creates a cache key for a single query. Two queries with the same
// scope, name and params always map to the same key.
func (kb *KeyBuilderImpl) Build(req *models.QueryRequest) (string, error) {
	if req == nil {
		return "", errors.New("request cannot be nil")
	}

	if req.Name == "" {
		return "", errors.New("query name cannot be empty")
	}

	if req.Scope == "" {
		return "", errors.New("query scope cannot be empty")
	}

	// Generate hash for params if they exist
	var paramsHashStr string
	if req.Params != nil {
		paramsJSON, err := json.Marshal(req.Params)
		if err != nil {
			return "", fmt.Errorf("failed to marshal params: %w", err)
		}
		hasher := md5.New()
		hasher.Write(paramsJSON)
		paramsHashStr = fmt.Sprintf("%x", hasher.Sum(nil))
	}

	// Final cache key: scope:name:paramsHash
	key := fmt.Sprintf("%s:%s:%s", req.Scope, req.Name, paramsHashStr)

	return key, nil
}

// BuildBatch creates cache keys for multiple queries
func (kb *KeyBuilderImpl) BuildBatch(reqs []models.QueryRequest) ([]string, error) {
	if len(reqs) == 0 {
		return nil, errors.New("requests slice cannot be empty")
	}

	keys := make([]string, len(reqs))

	for i, req := range reqs {
		key, err := kb.Build(&req)
		if err != nil {
			return nil, fmt.Errorf("failed to build key for request %d: %w", i, err)
		}
		keys[i] = key
	}

	return keys, nil
}
