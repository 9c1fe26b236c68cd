package policy

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LoadRulesConfig loads query policy rules from a YAML file
func LoadRulesConfig(rulesPath string, logger *zap.Logger) (*RulesConfig, error) {
	logger.Info("Loading query policy rules", zap.String("path", rulesPath))

	file, err := os.Open(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open rules file: %w", err)
	}
	defer file.Close()

	var config RulesConfig
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML rules: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("query rules validation failed: %w", err)
	}

	logger.Info("Query policy rules loaded successfully")

	return &config, nil
}

// validateConfig validates the rules configuration structure
func validateConfig(config *RulesConfig) error {
	if len(config.QueryRules) == 0 {
		return fmt.Errorf("missing query_rules section")
	}

	if len(config.ScopeTTLDefaults) == 0 {
		return fmt.Errorf("missing ttl_defaults section")
	}

	if _, ok := config.ScopeTTLDefaults["default"]; !ok {
		return fmt.Errorf("missing ttl_defaults.default section")
	}

	return nil
}
