package config

import (
	"path/filepath"

	"github.com/mvp-joe/codecorpus/internal/filter"
	"github.com/mvp-joe/codecorpus/internal/pipeline"
	"github.com/mvp-joe/codecorpus/internal/storage"
)

// Config represents the complete codecorpus configuration.
// It can be loaded from .codecorpus/config.yml with environment variable
// overrides.
type Config struct {
	Filter   filter.Config   `yaml:"filter" mapstructure:"filter"`
	Dedup    DedupConfig     `yaml:"dedup" mapstructure:"dedup"`
	Storage  StorageConfig   `yaml:"storage" mapstructure:"storage"`
	Pipeline pipeline.Config `yaml:"pipeline" mapstructure:"pipeline"`
	Paths    PathsConfig     `yaml:"paths" mapstructure:"paths"`
}

// DedupConfig locates the persistent duplicate-detection cache.
type DedupConfig struct {
	// CachePath is the bbolt database holding the seen-hash sets.
	CachePath string `yaml:"cache_path" mapstructure:"cache_path"`
}

// StorageConfig selects and tunes the storage backend.
type StorageConfig struct {
	// Backend is "local" or "s3".
	Backend string `yaml:"backend" mapstructure:"backend"`

	// LocalRoot is the object root for the local backend.
	LocalRoot string `yaml:"local_root" mapstructure:"local_root"`

	// S3 configures any S3-compatible provider.
	S3 storage.S3Config `yaml:"s3" mapstructure:"s3"`

	// Gateway tunes batching and retries.
	Gateway storage.Config `yaml:"gateway" mapstructure:"gateway"`
}

// PathsConfig defines which files to skip during discovery.
type PathsConfig struct {
	Ignore []string `yaml:"ignore" mapstructure:"ignore"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Filter: filter.DefaultConfig(),
		Dedup: DedupConfig{
			CachePath: filepath.Join(".codecorpus", "dedup.db"),
		},
		Storage: StorageConfig{
			Backend:   "local",
			LocalRoot: filepath.Join(".codecorpus", "corpus"),
			Gateway:   storage.DefaultConfig(),
		},
		Pipeline: pipeline.DefaultConfig(),
		Paths: PathsConfig{
			Ignore: pipeline.DefaultIgnorePatterns(),
		},
	}
}
