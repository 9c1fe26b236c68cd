package httpserver

import "go-query-cache/internal/models"

// QueryRequest is the body of POST /query
type QueryRequest struct {
	Scope     string      `json:"scope"`
	Name      string      `json:"name"`
	Params    interface{} `json:"params,omitempty"`
	OriginURL string      `json:"origin_url"` // where the fetcher gets the data from
}

// MutateRequest is the body of POST /mutate
type MutateRequest struct {
	OriginURL  string                `json:"origin_url"`
	Method     string                `json:"method,omitempty"` // defaults to POST
	Body       string                `json:"body,omitempty"`
	Invalidate []models.QueryRequest `json:"invalidate,omitempty"` // queries to drop on success
}

// InvalidateRequest is the body of POST /invalidate. Either a single
// scope/name/params triple or a queries batch; the batch wins when both
// are present.
type InvalidateRequest struct {
	Scope   string                `json:"scope,omitempty"`
	Name    string                `json:"name,omitempty"`
	Params  interface{}           `json:"params,omitempty"`
	Queries []models.QueryRequest `json:"queries,omitempty"`
}

// QueryResponse is the response for query and mutate operations
type QueryResponse struct {
	Success bool               `json:"success"`
	Data    string             `json:"data,omitempty"`
	Status  models.QueryStatus `json:"status,omitempty"`
	Key     string             `json:"key,omitempty"`
	Error   string             `json:"error,omitempty"`
}
