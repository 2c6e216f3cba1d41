// Package cli implements the command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/complia-labs/complia-cli/internal/core/ports/driven"
	"github.com/complia-labs/complia-cli/internal/core/ports/driving"
	"github.com/complia-labs/complia-cli/internal/logger"
)

// version is set from main at build time.
var version = "dev"

// Services wired in from main.
var (
	assistantService driving.Assistant
	indexerService   driving.Indexer
	transcriptStore  driven.TranscriptStore
	documentSource   driven.DocumentSource
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "complia",
	Short: "Compliance assistant for your document corpus",
	Long: `Complia answers questions about internal policies and records.

It indexes a local corpus of policy documents and transaction exports,
retrieves the most relevant passages for each question and produces a
grounded answer. Questions that need no documents are answered directly.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services groups the driving-side dependencies of the commands.
type Services struct {
	Assistant  driving.Assistant
	Indexer    driving.Indexer
	Transcript driven.TranscriptStore
	Source     driven.DocumentSource
}

// SetServices wires the services the commands drive.
func SetServices(s *Services) {
	if s == nil {
		assistantService = nil
		indexerService = nil
		transcriptStore = nil
		documentSource = nil
		return
	}
	assistantService = s.Assistant
	indexerService = s.Indexer
	transcriptStore = s.Transcript
	documentSource = s.Source
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
