package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codecorpus/internal/config"
	"github.com/mvp-joe/codecorpus/internal/dedup"
	"github.com/mvp-joe/codecorpus/internal/extract"
	"github.com/mvp-joe/codecorpus/internal/extract/grammars"
	"github.com/mvp-joe/codecorpus/internal/filter"
	"github.com/mvp-joe/codecorpus/internal/pipeline"
	"github.com/mvp-joe/codecorpus/internal/storage"
)

var (
	quietFlag   bool
	dryRunFlag  bool
	workersFlag int
)

// harvestCmd represents the harvest command
var harvestCmd = &cobra.Command{
	Use:   "harvest [directory]",
	Short: "Extract, filter and store training examples from a codebase",
	Long: `Harvest walks a source tree and turns it into training data.

For every supported source file it:
  - Parses the file with tree-sitter
  - Extracts functions, methods and classes
  - Scores each unit against the quality rules
  - Drops exact and structural duplicates
  - Uploads the survivors as JSON batches to the configured backend

Examples:
  # Harvest the current directory into local storage
  codecorpus harvest

  # Harvest a specific directory
  codecorpus harvest /path/to/repo

  # Score and dedup without storing anything
  codecorpus harvest --dry-run

  # Harvest with progress bars disabled
  codecorpus harvest --quiet
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHarvest,
}

func init() {
	rootCmd.AddCommand(harvestCmd)
	harvestCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	harvestCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Run the pipeline without writing to storage")
	harvestCmd.Flags().IntVarP(&workersFlag, "workers", "w", 0, "Number of parse workers (default: number of CPUs, capped)")
}

func runHarvest(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling harvest...")
		cancel()
	}()

	// Determine root directory
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	if len(args) == 1 {
		rootDir, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve directory: %w", err)
		}
	}

	// Load configuration from .codecorpus/config.yml
	cfg, err := config.NewLoader(rootDir).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if workersFlag > 0 {
		cfg.Pipeline.Workers = workersFlag
	}

	registry := grammars.DefaultRegistry()
	parser := extract.NewParser(registry)
	qualityFilter := filter.New(cfg.Filter, registry)

	// Persistent dedup store keyed off the root directory so repeated
	// harvests of the same tree stay incremental.
	cachePath := cfg.Dedup.CachePath
	if !filepath.IsAbs(cachePath) {
		cachePath = filepath.Join(rootDir, cachePath)
	}
	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	store, err := dedup.NewBoltStore(cachePath)
	if err != nil {
		return fmt.Errorf("failed to open dedup cache: %w", err)
	}
	detector, err := dedup.NewDetector(store)
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to create duplicate detector: %w", err)
	}
	defer detector.Close()

	backend, err := newBackend(ctx, rootDir, cfg)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	gateway := storage.NewGateway(backend, cfg.Storage.Gateway)

	// Create progress reporter
	progress := NewCLIProgressReporter(quietFlag)

	coordinator := pipeline.NewCoordinator(parser, qualityFilter, detector, gateway, progress, cfg.Pipeline)

	discovery, err := pipeline.NewDiscovery(rootDir, registry, cfg.Paths.Ignore)
	if err != nil {
		return fmt.Errorf("failed to compile ignore patterns: %w", err)
	}
	files, err := discovery.Discover()
	if err != nil {
		return fmt.Errorf("file discovery failed: %w", err)
	}
	if len(files) == 0 {
		log.Println("No supported source files found")
		return nil
	}

	result, err := coordinator.Run(ctx, files)
	if err != nil {
		return fmt.Errorf("harvest failed: %w", err)
	}

	if len(result.FailedBatches) > 0 {
		log.Printf("Warning: %d batches failed to store; rerun harvest to retry them", len(result.FailedBatches))
	}
	return nil
}

// newBackend builds the storage backend named by the configuration.
// A dry run substitutes a discard backend so the rest of the pipeline
// runs unchanged.
func newBackend(ctx context.Context, rootDir string, cfg *config.Config) (storage.Backend, error) {
	if dryRunFlag {
		return storage.NewDiscardBackend(), nil
	}
	switch cfg.Storage.Backend {
	case "s3":
		return storage.NewS3Backend(ctx, "s3", cfg.Storage.S3)
	default:
		root := cfg.Storage.LocalRoot
		if !filepath.IsAbs(root) {
			root = filepath.Join(rootDir, root)
		}
		return storage.NewLocalBackend(root)
	}
}
