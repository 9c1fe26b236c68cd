package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// ClientConfig is the immutable policy record handed to the cache client
// constructor. It is built once at startup and never mutated afterwards.
type ClientConfig struct {
	StaleTimeMs    int  // freshness window for cached results
	GCTimeMs       int  // retention window for unused results
	RefetchOnFocus bool // refetch active queries when focus is regained
	RetryCount     int  // automatic retries for a failed fetch
}

// DefaultClientConfig returns the stock client policy.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		StaleTimeMs:    30000,
		GCTimeMs:       300000,
		RefetchOnFocus: true,
		RetryCount:     1,
	}
}

// StaleTime returns the freshness window as a duration.
func (c ClientConfig) StaleTime() time.Duration {
	return time.Duration(c.StaleTimeMs) * time.Millisecond
}

// GCTime returns the retention window as a duration.
func (c ClientConfig) GCTime() time.Duration {
	return time.Duration(c.GCTimeMs) * time.Millisecond
}

// ClientSection is the YAML-facing client policy section. Fields are
// pointers so an absent key falls back to the default instead of the
// zero value (refetch_on_focus defaults to true).
type ClientSection struct {
	StaleTimeMs    *int  `yaml:"stale_time_ms" validate:"omitempty,gte=0"`
	GCTimeMs       *int  `yaml:"gc_time_ms" validate:"omitempty,gte=0"`
	RefetchOnFocus *bool `yaml:"refetch_on_focus"`
	RetryCount     *int  `yaml:"retry_count" validate:"omitempty,gte=0,lte=10"`
}

// BigCacheConfig configures the in-memory L1 store
type BigCacheConfig struct {
	Enabled       bool `yaml:"enabled"`
	SizeMB        int  `yaml:"size_mb" validate:"gte=0"`
	MaxEntryBytes int  `yaml:"max_entry_bytes" validate:"gte=0"`
}

// RedisConnectionConfig holds Redis connection timeouts in milliseconds
type RedisConnectionConfig struct {
	ConnectTimeoutMs int `yaml:"connect_timeout_ms" validate:"gte=0"`
	ReadTimeoutMs    int `yaml:"read_timeout_ms" validate:"gte=0"`
	SendTimeoutMs    int `yaml:"send_timeout_ms" validate:"gte=0"`
}

// RedisKeepaliveConfig holds Redis pool settings
type RedisKeepaliveConfig struct {
	PoolSize         int `yaml:"pool_size" validate:"gte=0"`
	MaxIdleTimeoutMs int `yaml:"max_idle_timeout_ms" validate:"gte=0"`
}

// RedisConfig configures the optional L2 store
type RedisConfig struct {
	Enabled    bool                  `yaml:"enabled"`
	Connection RedisConnectionConfig `yaml:"connection"`
	Keepalive  RedisKeepaliveConfig  `yaml:"keepalive"`
}

// MultiStoreConfig configures the composite store
type MultiStoreConfig struct {
	EnablePropagation bool `yaml:"enable_propagation"`
}

// ServerConfig configures the HTTP surface
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config represents the main configuration structure
type Config struct {
	Client     ClientSection    `yaml:"client"`
	BigCache   BigCacheConfig   `yaml:"bigcache"`
	Redis      RedisConfig      `yaml:"redis"`
	MultiStore MultiStoreConfig `yaml:"multi_store"`
	Server     ServerConfig     `yaml:"server"`
}

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	config.applyDefaults()

	if err := validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a configuration with every default applied, for
// running without a config file.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.BigCache.Enabled = true
	cfg.applyDefaults()
	return cfg
}

// ClientConfig resolves the YAML client section against the defaults.
func (c *Config) ClientConfig() ClientConfig {
	cfg := DefaultClientConfig()
	if c.Client.StaleTimeMs != nil {
		cfg.StaleTimeMs = *c.Client.StaleTimeMs
	}
	if c.Client.GCTimeMs != nil {
		cfg.GCTimeMs = *c.Client.GCTimeMs
	}
	if c.Client.RefetchOnFocus != nil {
		cfg.RefetchOnFocus = *c.Client.RefetchOnFocus
	}
	if c.Client.RetryCount != nil {
		cfg.RetryCount = *c.Client.RetryCount
	}
	return cfg
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.BigCache.SizeMB == 0 {
		c.BigCache.SizeMB = 64
	}
	if c.BigCache.MaxEntryBytes == 0 {
		c.BigCache.MaxEntryBytes = 1024 * 1024
	}
	if c.Redis.Connection.ConnectTimeoutMs == 0 {
		c.Redis.Connection.ConnectTimeoutMs = 5000
	}
	if c.Redis.Connection.ReadTimeoutMs == 0 {
		c.Redis.Connection.ReadTimeoutMs = 2000
	}
	if c.Redis.Connection.SendTimeoutMs == 0 {
		c.Redis.Connection.SendTimeoutMs = 2000
	}
	if c.Redis.Keepalive.PoolSize == 0 {
		c.Redis.Keepalive.PoolSize = 10
	}
	if c.Redis.Keepalive.MaxIdleTimeoutMs == 0 {
		c.Redis.Keepalive.MaxIdleTimeoutMs = 300000
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
}

// GetConnectTimeout returns the L2 connect timeout
func (c *Config) GetConnectTimeout() time.Duration {
	return time.Duration(c.Redis.Connection.ConnectTimeoutMs) * time.Millisecond
}

// GetReadTimeout returns the L2 read timeout
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.Redis.Connection.ReadTimeoutMs) * time.Millisecond
}

// GetSendTimeout returns the L2 write timeout
func (c *Config) GetSendTimeout() time.Duration {
	return time.Duration(c.Redis.Connection.SendTimeoutMs) * time.Millisecond
}

// GetMaxIdleTimeout returns the L2 idle connection timeout
func (c *Config) GetMaxIdleTimeout() time.Duration {
	return time.Duration(c.Redis.Keepalive.MaxIdleTimeoutMs) * time.Millisecond
}
