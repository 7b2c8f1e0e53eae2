package pipeline

import (
	"time"

	"github.com/mvp-joe/codecorpus/internal/storage"
)

// maxReasonSamples bounds the rejection reasons kept per file for
// diagnostics.
const maxReasonSamples = 10

// FileResult summarizes one source file's trip through the pipeline.
// It is created fresh per Process call and immutable once returned.
type FileResult struct {
	Path     string
	Language string

	// Seen counts every extracted unit; Accepted the units that cleared
	// quality and dedup and were persisted; Rejected the quality
	// failures; Duplicates the exact plus structural hits.
	Seen       int
	Accepted   int
	Rejected   int
	Duplicates int

	// StoreFailed counts accepted units whose batch exhausted retries.
	// They are not recorded as seen and will be readmitted on resubmit.
	StoreFailed int

	// Skipped is set for unsupported languages.
	Skipped bool

	// Degraded is set when extraction was partial due to syntax errors.
	Degraded bool

	// RejectionReasons holds the first few rejection causes for
	// diagnostics.
	RejectionReasons []string

	Elapsed time.Duration
}

// RunResult aggregates FileResults across a run.
type RunResult struct {
	RunID string

	Files         int
	FilesSkipped  int
	FilesDegraded int

	UnitsSeen      int
	UnitsAccepted  int
	UnitsRejected  int
	UnitsDuplicate int
	UnitsFailed    int

	// FailedBatches are resumable: the caller may resubmit them.
	FailedBatches []storage.BatchResult

	Elapsed time.Duration
}

// merge folds one file's result into the run totals.
func (r *RunResult) merge(fr *FileResult) {
	r.Files++
	if fr.Skipped {
		r.FilesSkipped++
	}
	if fr.Degraded {
		r.FilesDegraded++
	}
	r.UnitsSeen += fr.Seen
	r.UnitsAccepted += fr.Accepted
	r.UnitsRejected += fr.Rejected
	r.UnitsDuplicate += fr.Duplicates
	r.UnitsFailed += fr.StoreFailed
}
