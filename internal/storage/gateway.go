package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// Config tunes the gateway. Zero values fall back to defaults.
type Config struct {
	// BatchSize is the number of examples per stored object.
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`

	// MaxAttempts bounds the retry loop per batch.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`

	// BaseBackoff is the first retry delay; later delays double.
	BaseBackoff time.Duration `yaml:"base_backoff" mapstructure:"base_backoff"`

	// Prefix is prepended to every object key.
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// DefaultConfig returns the default gateway tuning.
func DefaultConfig() Config {
	return Config{
		BatchSize:   100,
		MaxAttempts: 4,
		BaseBackoff: 500 * time.Millisecond,
		Prefix:      "batches",
	}
}

// BatchResult reports one batch write, including how many attempts it
// took. A non-nil Err means the batch failed after exhausting retries and
// can be resubmitted.
type BatchResult struct {
	Key      string
	Units    int
	Attempts int
	Err      error
}

// PutReport summarizes a PutBatch call. Partial success is expected: the
// caller resubmits only the failed batches.
type PutReport struct {
	Backend string
	Batches []BatchResult
}

// Failed returns the batches that exhausted their retries.
func (r *PutReport) Failed() []BatchResult {
	var failed []BatchResult
	for _, b := range r.Batches {
		if b.Err != nil {
			failed = append(failed, b)
		}
	}
	return failed
}

// Stored returns the number of units successfully persisted.
func (r *PutReport) Stored() int {
	n := 0
	for _, b := range r.Batches {
		if b.Err == nil {
			n += b.Units
		}
	}
	return n
}

// Gateway writes batches of accepted units to a backend. It is written
// once against the Backend interface; the concrete backend is injected at
// construction.
type Gateway struct {
	backend Backend
	cfg     Config
}

// NewGateway creates a gateway over the backend.
func NewGateway(backend Backend, cfg Config) *Gateway {
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = def.BaseBackoff
	}
	if cfg.Prefix == "" {
		cfg.Prefix = def.Prefix
	}
	return &Gateway{backend: backend, cfg: cfg}
}

// BatchSize exposes the effective batch size so callers can pre-chunk
// units and keep the unit-to-batch association for commit accounting.
func (g *Gateway) BatchSize() int {
	return g.cfg.BatchSize
}

// PutBatch splits the objects into batches and writes each under a
// content-derived key, so re-running the pipeline over the same inputs
// overwrites identical bytes instead of creating duplicates.
//
// Transient failures are retried with exponential backoff; exhausted
// batches are reported failed-but-resumable. Fatal failures abort
// immediately.
func (g *Gateway) PutBatch(ctx context.Context, objects []StorageObject) (*PutReport, error) {
	report := &PutReport{Backend: g.backend.Name()}

	for _, obj := range objects {
		for _, chunk := range splitExamples(obj.Objects, g.cfg.BatchSize) {
			batch := StorageObject{
				TaskType: obj.TaskType,
				Language: obj.Language,
				Objects:  chunk,
			}
			result := g.putOne(ctx, batch)
			report.Batches = append(report.Batches, result)

			if result.Err != nil && errors.Is(result.Err, ErrStorageFatal) {
				return report, result.Err
			}
			if err := ctx.Err(); err != nil {
				return report, err
			}
		}
	}
	return report, nil
}

// putOne writes a single batch with an explicit bounded retry loop. The
// attempt count is carried in the result so failure accounting stays
// observable.
func (g *Gateway) putOne(ctx context.Context, batch StorageObject) BatchResult {
	key := g.batchKey(batch)
	result := BatchResult{Key: key, Units: len(batch.Objects)}

	data, err := json.Marshal(batch)
	if err != nil {
		result.Err = fmt.Errorf("marshal batch: %w", err)
		return result
	}

	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		result.Attempts = attempt

		err = g.backend.Put(ctx, key, data)
		if err == nil {
			result.Err = nil
			return result
		}
		result.Err = err

		if errors.Is(err, ErrStorageFatal) || !IsTransient(err) {
			return result
		}
		if attempt == g.cfg.MaxAttempts {
			return result
		}
		if !sleepBackoff(ctx, g.cfg.BaseBackoff, attempt) {
			result.Err = ctx.Err()
			return result
		}
	}
	return result
}

// batchKey derives the idempotent object key: a hash over the sorted
// content hashes of the batch's constituent units.
func (g *Gateway) batchKey(batch StorageObject) string {
	hashes := make([]string, len(batch.Objects))
	for i, example := range batch.Objects {
		sum := sha256.Sum256([]byte(example.Body))
		hashes[i] = hex.EncodeToString(sum[:])
	}
	sort.Strings(hashes)

	h := sha256.New()
	for _, hash := range hashes {
		h.Write([]byte(hash))
	}
	digest := hex.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s/%s/%s.json", g.cfg.Prefix, batch.Language, digest)
}

// splitExamples chunks examples into batch-size groups.
func splitExamples(examples []TrainingExample, size int) [][]TrainingExample {
	if len(examples) == 0 {
		return nil
	}

	var chunks [][]TrainingExample
	for start := 0; start < len(examples); start += size {
		end := start + size
		if end > len(examples) {
			end = len(examples)
		}
		chunks = append(chunks, examples[start:end])
	}
	return chunks
}

// sleepBackoff waits the exponential delay with jitter, honoring
// cancellation. Returns false if the context ended first.
func sleepBackoff(ctx context.Context, base time.Duration, attempt int) bool {
	delay := base << (attempt - 1)
	delay += time.Duration(rand.Int63n(int64(delay)/2 + 1))

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
