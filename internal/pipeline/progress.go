package pipeline

// ProgressReporter provides callbacks for reporting pipeline progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnRunStart is called once with the number of files to process.
	OnRunStart(totalFiles int)

	// OnFileProcessed is called after each file clears the CPU stages.
	OnFileProcessed(result *FileResult)

	// OnBatchStored is called after each batch upload succeeds.
	OnBatchStored(units int)

	// OnComplete is called when the run finishes.
	OnComplete(result *RunResult)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnRunStart(totalFiles int)          {}
func (n *NoOpProgressReporter) OnFileProcessed(result *FileResult) {}
func (n *NoOpProgressReporter) OnBatchStored(units int)            {}
func (n *NoOpProgressReporter) OnComplete(result *RunResult)       {}
