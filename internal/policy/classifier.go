package policy

import (
	"time"

	"go.uber.org/zap"

	"go-query-cache/internal/config"
	"go-query-cache/internal/interfaces"
	"go-query-cache/internal/models"
)

// Ensure Classifier implements the QueryClassifier interface
var _ interfaces.QueryClassifier = (*Classifier)(nil)

// Classifier resolves caching policy for queries from the loaded rules,
// falling back to the client defaults for unlisted query names.
type Classifier struct {
	logger   *zap.Logger
	rules    *RulesConfig
	defaults config.ClientConfig
}

// NewClassifier creates a new Classifier instance. rules may be nil, in
// which case every query gets the standard class with the client windows.
func NewClassifier(logger *zap.Logger, rules *RulesConfig, defaults config.ClientConfig) *Classifier {
	return &Classifier{
		logger:   logger,
		rules:    rules,
		defaults: defaults,
	}
}

// Resolve implements QueryClassifier
func (c *Classifier) Resolve(req *models.QueryRequest) models.QueryInfo {
	if req == nil || req.Name == "" {
		return models.QueryInfo{Class: models.QueryClassNone}
	}

	standard := models.QueryInfo{
		Class: models.QueryClassStandard,
		TTL: models.TTL{
			Fresh:  c.defaults.StaleTime(),
			Retain: c.defaults.GCTime(),
		},
	}

	if c.rules == nil {
		return standard
	}

	class, ok := c.rules.QueryRules[req.Name]
	if !ok {
		return standard
	}

	if class == models.QueryClassNone {
		return models.QueryInfo{Class: models.QueryClassNone}
	}

	fresh := c.freshWindow(req.Scope, class)
	if fresh == 0 {
		if class == models.QueryClassStandard {
			return standard
		}
		return models.QueryInfo{Class: models.QueryClassNone}
	}

	return models.QueryInfo{
		Class: class,
		TTL: models.TTL{
			Fresh:  fresh,
			Retain: c.defaults.GCTime(),
		},
	}
}

// freshWindow looks up the freshness window for a class, preferring the
// query's scope over the "default" section.
func (c *Classifier) freshWindow(scope string, class models.QueryClass) time.Duration {
	if defaults, ok := c.rules.ScopeTTLDefaults[scope]; ok {
		if d, ok := defaults[class]; ok {
			return d
		}
	}
	if defaults, ok := c.rules.ScopeTTLDefaults["default"]; ok {
		if d, ok := defaults[class]; ok {
			return d
		}
	}
	if class == models.QueryClassStandard {
		return c.defaults.StaleTime()
	}
	return 0
}
