package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"go-query-cache/internal/cache/l1"
	"go-query-cache/internal/cache/l2"
	"go-query-cache/internal/cache/multi"
	"go-query-cache/internal/cache/noop"
	"go-query-cache/internal/client"
	"go-query-cache/internal/config"
	"go-query-cache/internal/focus"
	"go-query-cache/internal/httpserver"
	"go-query-cache/internal/interfaces"
	"go-query-cache/internal/policy"
	"go-query-cache/internal/provider"
)

// CompositionRoot holds all application dependencies and provides a
// centralized place for dependency injection and service initialization.
// The cache client itself is constructed at most once per process, owned
// by the Provider; everything that needs it receives it from there.
type CompositionRoot struct {
	// Configuration
	Config     *config.Config
	Logger     *zap.Logger
	Classifier interfaces.QueryClassifier

	// Cache components
	L1Store interfaces.Store
	L2Store interfaces.Store
	Focus   interfaces.FocusSource

	// Services
	Provider   *provider.Provider
	HTTPServer *httpserver.Server
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration
// 3. Query policy rules
// 4. Cache stores (L1, L2)
// 5. Focus source
// 6. Provider (owns the single client instance)
// 7. HTTP Server (uses all above components)
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.loadQueryRules(); err != nil {
		return nil, fmt.Errorf("failed to load query rules: %w", err)
	}

	if err := root.initStores(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache stores: %w", err)
	}

	root.initFocusSource()
	root.initProvider()
	root.initHTTPServer()

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadConfig loads the application configuration. Without a config file
// the built-in defaults apply.
func (r *CompositionRoot) loadConfig() error {
	configPath := os.Getenv("QUERY_CACHE_CONFIG_FILE")
	if configPath == "" {
		r.Logger.Info("No config file set, using defaults")
		r.Config = config.DefaultConfig()
		return nil
	}

	cfg, err := config.LoadConfig(configPath, r.Logger)
	if err != nil {
		return err
	}

	r.Config = cfg
	return nil
}

// loadQueryRules loads the optional query policy rules
func (r *CompositionRoot) loadQueryRules() error {
	rulesPath := os.Getenv("QUERY_RULES_FILE")
	if rulesPath == "" {
		r.Classifier = policy.NewClassifier(r.Logger, nil, r.Config.ClientConfig())
		return nil
	}

	rules, err := policy.LoadRulesConfig(rulesPath, r.Logger)
	if err != nil {
		return err
	}

	r.Classifier = policy.NewClassifier(r.Logger, rules, r.Config.ClientConfig())
	return nil
}

// initStores initializes the L1 and L2 cache stores
func (r *CompositionRoot) initStores() error {
	if err := r.initL1Store(); err != nil {
		return fmt.Errorf("failed to initialize L1 store: %w", err)
	}

	if err := r.initL2Store(); err != nil {
		return fmt.Errorf("failed to initialize L2 store: %w", err)
	}

	return nil
}

// initL1Store initializes the in-memory L1 store (BigCache)
func (r *CompositionRoot) initL1Store() error {
	if r.Config.BigCache.Enabled {
		l1Store, err := l1.NewBigCacheStore(&r.Config.BigCache, r.Logger)
		if err != nil {
			return err
		}
		r.L1Store = l1Store
		r.Logger.Info("BigCache (L1) initialized", zap.Int("size_mb", r.Config.BigCache.SizeMB))
	} else {
		r.L1Store = noop.NewNoOpStore()
		r.Logger.Info("BigCache (L1) disabled")
	}
	return nil
}

// initL2Store initializes the Redis L2 store
func (r *CompositionRoot) initL2Store() error {
	if r.Config.Redis.Enabled {
		redisURL := GetRedisURL(r.Logger)

		redisClient, err := l2.NewRedisClient(&r.Config.Redis, redisURL, r.Logger)
		if err != nil {
			r.Logger.Warn("Failed to connect to Redis, falling back to no L2 store",
				zap.String("redis_url", redisURL),
				zap.Error(err))
			r.L2Store = noop.NewNoOpStore()
			return nil
		}

		r.L2Store = l2.NewRedisStore(r.Config, redisClient, r.Logger)
		r.Logger.Info("Redis (L2) initialized", zap.String("redis_url", redisURL))
	} else {
		r.L2Store = noop.NewNoOpStore()
		r.Logger.Info("Redis (L2) disabled")
	}
	return nil
}

// initFocusSource picks the focus source for this host. A sidecar has no
// window, so SIGCONT stands in for focus regained; set
// QUERY_CACHE_NO_FOCUS=1 to disable entirely.
func (r *CompositionRoot) initFocusSource() {
	if os.Getenv("QUERY_CACHE_NO_FOCUS") != "" {
		r.Focus = focus.NewNopSource()
		r.Logger.Info("Focus refetch disabled")
		return
	}
	r.Focus = focus.NewSignalSource()
}

// initProvider wires the provider with a client constructor. The client
// is built lazily on first use and exactly once for the process.
func (r *CompositionRoot) initProvider() {
	clientCfg := r.Config.ClientConfig()
	stores := []interfaces.Store{r.L1Store, r.L2Store}
	multiStore := multi.NewMultiStore(stores, r.Logger, r.Config.MultiStore.EnablePropagation)

	r.Provider = provider.New(func() *client.Client {
		return client.New(clientCfg, multiStore, r.Classifier, r.Focus, r.Logger)
	})
}

// initHTTPServer initializes the HTTP server
func (r *CompositionRoot) initHTTPServer() {
	r.HTTPServer = httpserver.NewServer(r.Provider, r.Logger)
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errors []error

	// Stop the client's background loops
	if r.Provider != nil {
		r.Provider.Close()
	}

	// Stop the focus source
	if r.Focus != nil {
		if err := r.Focus.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close focus source: %w", err))
		}
	}

	// Close L1 store
	if r.L1Store != nil {
		if l1Store, ok := r.L1Store.(*l1.BigCacheStore); ok {
			if err := l1Store.Close(); err != nil {
				errors = append(errors, fmt.Errorf("failed to close L1 store: %w", err))
			}
		}
	}

	// Close L2 store
	if r.L2Store != nil {
		if l2Store, ok := r.L2Store.(*l2.RedisStore); ok {
			if err := l2Store.Close(); err != nil {
				errors = append(errors, fmt.Errorf("failed to close L2 store: %w", err))
			}
		}
	}

	// Sync logger
	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil {
			errors = append(errors, fmt.Errorf("failed to sync logger: %w", err))
		}
	}

	// Return first error if any
	if len(errors) > 0 {
		return errors[0]
	}

	return nil
}
