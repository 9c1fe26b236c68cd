package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// QueryClass represents the caching class assigned to a query name
type QueryClass string

const (
	QueryClassStatic   QueryClass = "static"   // rarely-changing data, long freshness
	QueryClassStandard QueryClass = "standard" // default client windows
	QueryClassVolatile QueryClass = "volatile" // short freshness, frequent refetch
	QueryClassNone     QueryClass = "none"     // never cached
)

// UnmarshalYAML implements custom YAML unmarshaling for QueryClass
func (q *QueryClass) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "static", "standard", "volatile", "none":
		*q = QueryClass(str)
		return nil
	default:
		return fmt.Errorf("invalid query class '%s': must be one of 'static', 'standard', 'volatile', 'none'", str)
	}
}

// QueryInfo contains the resolved caching policy for one query
type QueryInfo struct {
	TTL   TTL        `json:"ttl"`
	Class QueryClass `json:"class"`
}

// Bypass reports whether caching is disabled for the query.
func (qi QueryInfo) Bypass() bool {
	return qi.Class == QueryClassNone || qi.TTL.Fresh == 0
}

// QueryRequest identifies one query issued by a consumer
type QueryRequest struct {
	Scope  string      `json:"scope"`
	Name   string      `json:"name"`
	Params interface{} `json:"params,omitempty"`
}

// QueryStatus describes how a query was answered
type QueryStatus string

const (
	QueryStatusFresh   QueryStatus = "FRESH"   // served from cache within the freshness window
	QueryStatusStale   QueryStatus = "STALE"   // served from cache, background refetch triggered
	QueryStatusFetched QueryStatus = "FETCHED" // cache miss, fetched from the origin
	QueryStatusBypass  QueryStatus = "BYPASS"  // caching disabled for this query
)

// RefetchReason labels why a background refetch ran
type RefetchReason string

const (
	RefetchReasonStale      RefetchReason = "stale"
	RefetchReasonFocus      RefetchReason = "focus"
	RefetchReasonInvalidate RefetchReason = "invalidate"
)
