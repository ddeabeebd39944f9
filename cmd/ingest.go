package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cisohq/reasond/internal/config"
	"github.com/cisohq/reasond/internal/ingest"
	"github.com/cisohq/reasond/internal/manifest"
	"github.com/cisohq/reasond/internal/progress"
	"github.com/cisohq/reasond/internal/walker"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Ingest knowledge documents into the vector store",
	Long:  `Walks a directory of markdown and text documents, embeds their content, and stores the chunks for one tenant. Unchanged documents are skipped.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().String("org", "default", "tenant to ingest into")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	org, _ := cmd.Flags().GetString("org")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Backend == config.BackendNone {
		return fmt.Errorf("no storage backend configured: set PG_CONN or backend: local")
	}

	rootDir := "."
	if len(args) == 1 {
		rootDir = args[0]
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning documents in %s...\n", rootDir)
	}

	files, err := walker.Walk(walker.WalkerConfig{
		RootDir: rootDir,
		Include: cfg.Ingest.Include,
		Exclude: cfg.Ingest.Exclude,
	})
	if err != nil {
		return fmt.Errorf("walking documents: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("No documents found to ingest.")
		return nil
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Found %d documents\n", len(files))
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening knowledge store: %w", err)
	}
	defer store.Close()

	man, err := manifest.Open(manifestPath(cfg))
	if err != nil {
		return fmt.Errorf("opening manifest: %w", err)
	}
	defer man.Close()

	pipeline := ingest.NewPipeline(createEmbedder(cfg), store, man, cfg.Ingest.ChunkTokens)
	if cfg.Ingest.URLPrefix != "" {
		pipeline.SetURLPrefix(cfg.Ingest.URLPrefix)
	}

	reporter := progress.NewReporter()
	reporter.Start(len(files))
	pipeline.SetProgressFunc(func(done int, total int, relPath string) {
		reporter.Update(done, relPath)
	})

	result, err := pipeline.Run(ctx, org, files)
	reporter.Finish()
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Ingestion complete!")
	fmt.Printf("  Documents processed: %d\n", result.FilesProcessed)
	fmt.Printf("  Documents skipped:   %d (unchanged)\n", result.FilesSkipped)
	fmt.Printf("  Documents failed:    %d\n", result.FilesFailed)
	fmt.Printf("  Chunks stored:       %d\n", result.ChunksStored)
	fmt.Printf("  Duration:            %s\n", result.Duration.Round(10*time.Millisecond))

	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "  error: %v\n", e)
	}
	if result.FilesFailed > 0 {
		return fmt.Errorf("%d document(s) failed", result.FilesFailed)
	}
	return nil
}
