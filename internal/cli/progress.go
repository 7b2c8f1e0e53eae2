package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/codecorpus/internal/pipeline"
)

// CLIProgressReporter implements progress reporting with progress bars.
type CLIProgressReporter struct {
	quiet       bool
	fileBar     *progressbar.ProgressBar
	startTime   time.Time
	storedUnits int
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnRunStart(totalFiles int) {
	if c.quiet {
		return
	}
	log.Printf("Processing %d source files\n", totalFiles)
	fmt.Println()

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Harvesting files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(result *pipeline.FileResult) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnBatchStored(units int) {
	if c.quiet {
		return
	}
	c.storedUnits += units
}

func (c *CLIProgressReporter) OnComplete(result *pipeline.RunResult) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}

	fmt.Println()
	fmt.Printf("✓ Harvest complete: %s examples stored in %.1fs (run %s)\n",
		formatNumber(result.UnitsAccepted), result.Elapsed.Seconds(), result.RunID)
	fmt.Printf("  Files:      %s (%s skipped, %s degraded)\n",
		formatNumber(result.Files), formatNumber(result.FilesSkipped), formatNumber(result.FilesDegraded))
	fmt.Printf("  Extracted:  %s\n", formatNumber(result.UnitsSeen))
	fmt.Printf("  Rejected:   %s\n", formatNumber(result.UnitsRejected))
	fmt.Printf("  Duplicates: %s\n", formatNumber(result.UnitsDuplicate))
	if result.UnitsFailed > 0 {
		fmt.Printf("  Failed:     %s (storage errors)\n", formatNumber(result.UnitsFailed))
	}
}

// formatNumber renders n with thousands separators (e.g. 12,345).
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	s := fmt.Sprintf("%d", n)
	var out []byte
	for i, d := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	return string(out)
}
