package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/complia-labs/complia-cli/internal/core/domain"
	"github.com/complia-labs/complia-cli/internal/core/ports/driven"
)

var (
	indexForce bool
	indexWatch bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the document corpus",
	Long: `Reads the corpus directory, splits each document into chunks and
loads their embeddings into the vector store.

An already-populated store is left untouched unless --force is given.
With --watch, the corpus directory is monitored and re-indexed whenever
a document changes, until interrupted.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexForce, "force", "f", false, "rebuild even if already indexed")
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "re-index on corpus changes")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	ctx := context.Background()

	report, err := indexerService.Index(ctx, indexForce)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	printReport(cmd, report)

	if indexWatch {
		return watchCorpus(cmd)
	}
	return nil
}

func printReport(cmd *cobra.Command, report domain.IndexReport) {
	if report.Skipped {
		cmd.Printf("Corpus already indexed (%d chunks). Use --force to rebuild.\n", report.Chunks)
		return
	}

	cmd.Printf("Indexed %d documents into %d chunks.\n", report.Documents, report.Chunks)
	for _, failure := range report.Failures {
		cmd.Printf("  skipped %s: %v\n", failure.DocumentID, failure.Err)
	}
}

// watchCorpus re-indexes on every change notification until interrupted.
func watchCorpus(cmd *cobra.Command) error {
	watchable, ok := documentSource.(driven.WatchableSource)
	if !ok {
		return errors.New("document source does not support watching")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	changes, err := watchable.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch corpus: %w", err)
	}

	cmd.Println("Watching corpus for changes. Press Ctrl+C to stop.")
	for {
		select {
		case <-ctx.Done():
			return nil
		case id, ok := <-changes:
			if !ok {
				return nil
			}
			cmd.Printf("Change detected: %s\n", id)
			report, err := indexerService.Index(ctx, true)
			if err != nil {
				cmd.Printf("Re-index failed: %v\n", err)
				continue
			}
			printReport(cmd, report)
		}
	}
}
