// Package pipeline orchestrates the extraction-filter-dedup-store flow:
// parse a source file into code units, drop low-quality and duplicate
// units, persist the survivors, and aggregate run statistics.
package pipeline

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/codecorpus/internal/dedup"
	"github.com/mvp-joe/codecorpus/internal/extract"
	"github.com/mvp-joe/codecorpus/internal/extract/grammars"
	"github.com/mvp-joe/codecorpus/internal/filter"
	"github.com/mvp-joe/codecorpus/internal/storage"
)

// Config tunes the worker pools. Zero values fall back to defaults.
type Config struct {
	// Workers is the CPU-bound pool size (parse, filter, dedup check).
	Workers int `yaml:"workers" mapstructure:"workers"`

	// UploadWorkers is the I/O-bound pool size for batch uploads.
	UploadWorkers int `yaml:"upload_workers" mapstructure:"upload_workers"`

	// QueueDepth bounds the pending-upload queue (backpressure).
	QueueDepth int `yaml:"queue_depth" mapstructure:"queue_depth"`
}

// DefaultConfig returns the default pool sizing.
func DefaultConfig() Config {
	return Config{
		Workers:       4,
		UploadWorkers: 2,
		QueueDepth:    16,
	}
}

// Coordinator wires the pipeline stages together. Within one file the
// stages run strictly sequentially; across files the coordinator runs a
// CPU pool feeding a bounded upload queue.
type Coordinator struct {
	parser   *extract.Parser
	filter   *filter.Filter
	detector *dedup.Detector
	gateway  *storage.Gateway
	progress ProgressReporter
	cfg      Config
}

// NewCoordinator creates a coordinator. A nil progress reporter is
// replaced with a no-op.
func NewCoordinator(
	parser *extract.Parser,
	qualityFilter *filter.Filter,
	detector *dedup.Detector,
	gateway *storage.Gateway,
	progress ProgressReporter,
	cfg Config,
) *Coordinator {
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.UploadWorkers <= 0 {
		cfg.UploadWorkers = def.UploadWorkers
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = def.QueueDepth
	}

	return &Coordinator{
		parser:   parser,
		filter:   qualityFilter,
		detector: detector,
		gateway:  gateway,
		progress: progress,
		cfg:      cfg,
	}
}

// Process runs one file through the full pipeline: parse, filter, dedup
// check, store, dedup commit. Per-file problems (unsupported language,
// syntax errors) are reported in the result, not returned as errors;
// only infrastructure failures (dedup store, fatal storage) error.
func (c *Coordinator) Process(ctx context.Context, file SourceFile) (*FileResult, error) {
	start := time.Now()
	result, pending, err := c.analyze(ctx, file)
	if err != nil {
		return nil, err
	}

	if len(pending) > 0 {
		if err := c.storeAndCommit(ctx, pending, result, nil); err != nil {
			result.Elapsed = time.Since(start)
			return result, err
		}
	}
	result.Elapsed = time.Since(start)
	return result, nil
}

// Run processes many files concurrently: a CPU pool for the pure stages
// and a separate bounded I/O pool for uploads. Per-file errors never
// abort the run; fatal storage errors do.
func (c *Coordinator) Run(ctx context.Context, files []SourceFile) (*RunResult, error) {
	start := time.Now()
	run := &RunResult{RunID: uuid.New().String()}
	c.progress.OnRunStart(len(files))

	type pendingUpload struct {
		result *FileResult
		units  []extract.CodeUnit
	}

	var mu sync.Mutex
	uploads := make(chan pendingUpload, c.cfg.QueueDepth)

	group, gctx := errgroup.WithContext(ctx)

	// I/O pool: drain the bounded queue, upload, commit.
	ioGroup, ioCtx := errgroup.WithContext(gctx)
	for range c.cfg.UploadWorkers {
		ioGroup.Go(func() error {
			for job := range uploads {
				if err := c.storeAndCommit(ioCtx, job.units, job.result, run); err != nil {
					return err
				}
				mu.Lock()
				run.merge(job.result)
				mu.Unlock()
			}
			return nil
		})
	}

	// CPU pool: parse, filter, dedup-check.
	cpuGroup, cpuCtx := errgroup.WithContext(gctx)
	cpuGroup.SetLimit(c.cfg.Workers)
	for _, file := range files {
		cpuGroup.Go(func() error {
			result, pending, err := c.analyze(cpuCtx, file)
			if err != nil {
				return err
			}
			c.progress.OnFileProcessed(result)

			if len(pending) == 0 {
				mu.Lock()
				run.merge(result)
				mu.Unlock()
				return nil
			}

			select {
			case uploads <- pendingUpload{result: result, units: pending}:
				return nil
			case <-cpuCtx.Done():
				return cpuCtx.Err()
			}
		})
	}

	group.Go(func() error {
		defer close(uploads)
		return cpuGroup.Wait()
	})
	group.Go(ioGroup.Wait)

	err := group.Wait()
	run.Elapsed = time.Since(start)
	c.progress.OnComplete(run)
	if err != nil {
		return run, err
	}
	return run, nil
}

// analyze runs the pure stages for one file and returns the units that
// passed quality and the read-only dedup check.
func (c *Coordinator) analyze(ctx context.Context, file SourceFile) (*FileResult, []extract.CodeUnit, error) {
	start := time.Now()
	result := &FileResult{Path: file.Path, Language: file.Language}

	content := file.Content
	if content == nil {
		data, err := os.ReadFile(file.Path)
		if err != nil {
			log.Printf("Warning: failed to read %s: %v\n", file.Path, err)
			result.Skipped = true
			result.Elapsed = time.Since(start)
			return result, nil, nil
		}
		content = data
	}

	extraction, err := c.parser.Extract(ctx, file.Path, file.Language, content)
	if err != nil {
		if errors.Is(err, grammars.ErrUnsupportedLanguage) {
			log.Printf("Skipping %s: %v\n", file.Path, err)
			result.Skipped = true
			result.Elapsed = time.Since(start)
			return result, nil, nil
		}
		return nil, nil, err
	}

	result.Degraded = extraction.Degraded
	result.Seen = len(extraction.Units)

	var pending []extract.CodeUnit
	for _, unit := range extraction.Units {
		verdict := c.filter.Score(unit)
		if !verdict.Accepted {
			result.Rejected++
			if len(result.RejectionReasons) < maxReasonSamples && len(verdict.Reasons) > 0 {
				result.RejectionReasons = append(result.RejectionReasons, verdict.Reasons[0])
			}
			continue
		}

		status, err := c.detector.Check(unit)
		if err != nil {
			return nil, nil, err
		}
		if status != dedup.New {
			result.Duplicates++
			continue
		}
		pending = append(pending, unit)
	}

	result.Elapsed = time.Since(start)
	return result, pending, nil
}

// storeAndCommit persists the pending units and records their dedup keys
// only after the backend acknowledged the batch (write-then-record). A
// unit whose batch failed stays unrecorded and is readmitted when the
// caller resubmits.
func (c *Coordinator) storeAndCommit(ctx context.Context, pending []extract.CodeUnit, result *FileResult, run *RunResult) error {
	for _, chunk := range chunkUnits(byLanguage(pending), c.gateway.BatchSize()) {
		object := storage.StorageObject{
			TaskType: storage.TaskTypeCodeGen,
			Language: chunk[0].Language,
			Objects:  projectUnits(chunk),
		}

		report, err := c.gateway.PutBatch(ctx, []storage.StorageObject{object})
		if err != nil {
			c.recordBatches(report, run)
			result.StoreFailed += len(chunk)
			return err
		}
		c.recordBatches(report, run)

		if failed := report.Failed(); len(failed) > 0 {
			log.Printf("Warning: batch for %s failed after %d attempts: %v\n",
				result.Path, failed[0].Attempts, failed[0].Err)
			result.StoreFailed += len(chunk)
			continue
		}

		stored := 0
		for _, unit := range chunk {
			status, err := c.detector.Commit(unit)
			if err != nil {
				return err
			}
			if status == dedup.New {
				result.Accepted++
				stored++
			} else {
				// A concurrent worker admitted the same unit first.
				result.Duplicates++
			}
		}
		c.progress.OnBatchStored(stored)
	}
	return nil
}

// recordBatches appends failed batch reports to the run for resubmission.
func (c *Coordinator) recordBatches(report *storage.PutReport, run *RunResult) {
	if report == nil || run == nil {
		return
	}
	if failed := report.Failed(); len(failed) > 0 {
		run.FailedBatches = append(run.FailedBatches, failed...)
	}
}

// byLanguage groups units by language, preserving order within a group.
func byLanguage(units []extract.CodeUnit) [][]extract.CodeUnit {
	index := make(map[string]int)
	var groups [][]extract.CodeUnit
	for _, unit := range units {
		i, ok := index[unit.Language]
		if !ok {
			i = len(groups)
			index[unit.Language] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], unit)
	}
	return groups
}

// chunkUnits splits each language group into batch-size chunks.
func chunkUnits(groups [][]extract.CodeUnit, size int) [][]extract.CodeUnit {
	var chunks [][]extract.CodeUnit
	for _, group := range groups {
		for start := 0; start < len(group); start += size {
			end := start + size
			if end > len(group) {
				end = len(group)
			}
			chunks = append(chunks, group[start:end])
		}
	}
	return chunks
}

func projectUnits(units []extract.CodeUnit) []storage.TrainingExample {
	examples := make([]storage.TrainingExample, len(units))
	for i, unit := range units {
		examples[i] = storage.Project(unit)
	}
	return examples
}
