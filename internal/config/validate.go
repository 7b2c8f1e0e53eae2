package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidBackend indicates an unsupported storage backend
	ErrInvalidBackend = errors.New("invalid storage backend")

	// ErrMissingS3Settings indicates incomplete S3 configuration
	ErrMissingS3Settings = errors.New("missing s3 settings")

	// ErrInvalidThreshold indicates an out-of-range filter threshold
	ErrInvalidThreshold = errors.New("invalid filter threshold")

	// ErrInvalidBatchSize indicates a non-positive batch size
	ErrInvalidBatchSize = errors.New("invalid batch size")

	// ErrEmptyCachePath indicates a missing dedup cache location
	ErrEmptyCachePath = errors.New("empty dedup cache path")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateFilter(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateDedup(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateStorage(cfg); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateFilter(cfg *Config) error {
	if cfg.Filter.Threshold < 0 || cfg.Filter.Threshold > 100 {
		return fmt.Errorf("%w: must be 0-100, got %v", ErrInvalidThreshold, cfg.Filter.Threshold)
	}
	return nil
}

func validateDedup(cfg *Config) error {
	if strings.TrimSpace(cfg.Dedup.CachePath) == "" {
		return ErrEmptyCachePath
	}
	return nil
}

func validateStorage(cfg *Config) error {
	var errs []error

	switch strings.ToLower(cfg.Storage.Backend) {
	case "local":
		// LocalRoot defaults are filled in by the loader.
	case "s3":
		if cfg.Storage.S3.Endpoint == "" || cfg.Storage.S3.Bucket == "" {
			errs = append(errs, fmt.Errorf("%w: endpoint and bucket are required", ErrMissingS3Settings))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'local' or 's3', got '%s'", ErrInvalidBackend, cfg.Storage.Backend))
	}

	if cfg.Storage.Gateway.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, cfg.Storage.Gateway.BatchSize))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

// joinErrors combines multiple validation errors into one.
func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}

	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return errors.New(strings.Join(messages, "; "))
}
