package policy

import (
	"time"

	"go-query-cache/internal/models"
)

// TTLDefaults maps a query class to its freshness window
type TTLDefaults map[models.QueryClass]time.Duration

// RulesConfig represents the query policy rules configuration
type RulesConfig struct {
	ScopeTTLDefaults map[string]TTLDefaults       `yaml:"ttl_defaults"`
	QueryRules       map[string]models.QueryClass `yaml:"query_rules"`
}
