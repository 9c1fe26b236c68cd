package interfaces

import (
	"go-query-cache/internal/models"
)

//go:generate mockgen -package=mock -source=classifier.go -destination=mock/classifier.go

// QueryClassifier resolves the caching policy for a query
type QueryClassifier interface {
	// Resolve returns the effective freshness and retention windows for
	// the query, falling back to the client defaults for unlisted names.
	Resolve(req *models.QueryRequest) models.QueryInfo
}
