// Package storage persists accepted batches of code units to pluggable
// object backends with retry semantics and idempotent, content-derived
// keys.
package storage

import (
	"context"
	"errors"
)

// Backend is the capability set every concrete backend implements. The
// gateway is written once against this interface; swapping backends
// requires no change to pipeline logic.
type Backend interface {
	// Put writes an object under the key, overwriting any existing object.
	Put(ctx context.Context, key string, data []byte) error

	// Get reads the object stored under the key.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns the keys under the prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the object under the key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error

	// Name identifies the backend in reports and logs.
	Name() string
}

var (
	// ErrNotFound indicates a Get against a missing key.
	ErrNotFound = errors.New("object not found")

	// ErrStorageFatal marks non-retryable failures (invalid credentials,
	// missing bucket). The run aborts instead of retrying.
	ErrStorageFatal = errors.New("fatal storage error")
)

// transientError wraps a retryable failure.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks an error as retryable.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether an error was marked retryable.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
