package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (CODECORPUS_*)
// 2. Config file (.codecorpus/config.yml or .codecorpus/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.rootDir, ".codecorpus")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Enable environment variable overrides
	v.SetEnvPrefix("CODECORPUS")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., CODECORPUS_STORAGE_BACKEND)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables to config keys
	v.BindEnv("filter.threshold")
	v.BindEnv("filter.min_unique_tokens")

	v.BindEnv("dedup.cache_path")

	v.BindEnv("storage.backend")
	v.BindEnv("storage.local_root")
	v.BindEnv("storage.s3.endpoint")
	v.BindEnv("storage.s3.region")
	v.BindEnv("storage.s3.bucket")
	v.BindEnv("storage.s3.access_key")
	v.BindEnv("storage.s3.secret_key")
	v.BindEnv("storage.s3.use_ssl")
	v.BindEnv("storage.gateway.batch_size")
	v.BindEnv("storage.gateway.max_attempts")
	v.BindEnv("storage.gateway.prefix")

	v.BindEnv("pipeline.workers")
	v.BindEnv("pipeline.upload_workers")
	v.BindEnv("pipeline.queue_depth")

	setDefaults(v)

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("filter.threshold", defaults.Filter.Threshold)
	v.SetDefault("filter.min_unique_tokens", defaults.Filter.MinUniqueTokens)

	v.SetDefault("dedup.cache_path", defaults.Dedup.CachePath)

	v.SetDefault("storage.backend", defaults.Storage.Backend)
	v.SetDefault("storage.local_root", defaults.Storage.LocalRoot)
	v.SetDefault("storage.gateway.batch_size", defaults.Storage.Gateway.BatchSize)
	v.SetDefault("storage.gateway.max_attempts", defaults.Storage.Gateway.MaxAttempts)
	v.SetDefault("storage.gateway.base_backoff", defaults.Storage.Gateway.BaseBackoff)
	v.SetDefault("storage.gateway.prefix", defaults.Storage.Gateway.Prefix)

	v.SetDefault("pipeline.workers", defaults.Pipeline.Workers)
	v.SetDefault("pipeline.upload_workers", defaults.Pipeline.UploadWorkers)
	v.SetDefault("pipeline.queue_depth", defaults.Pipeline.QueueDepth)

	v.SetDefault("paths.ignore", defaults.Paths.Ignore)
}
