package interfaces

import (
	"go-query-cache/internal/models"
)

//go:generate mockgen -package=mock -source=keybuilder.go -destination=mock/keybuilder.go

// KeyBuilder builds cache keys for queries
type KeyBuilder interface {
	// Build creates a deterministic cache key for a single query
	Build(req *models.QueryRequest) (string, error)

	// BuildBatch creates cache keys for multiple queries
	BuildBatch(reqs []models.QueryRequest) ([]string, error)
}
