package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/complia-labs/complia-cli/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Answers one question and exits.

Compliance questions are grounded in the indexed corpus; run "complia
index" first. Small talk is answered without document lookup.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	ctx := context.Background()

	// The vector store lives in process memory, so the corpus is
	// loaded here when needed. A populated store makes this a no-op.
	if indexerService != nil {
		if _, err := indexerService.Index(ctx, false); err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}
	}

	answer, err := assistantService.Answer(ctx, question)
	if err != nil {
		if errors.Is(err, domain.ErrNotIndexed) {
			return errors.New("corpus not indexed yet, run \"complia index\" first")
		}
		return fmt.Errorf("answer failed: %w", err)
	}

	cmd.Println(answer.Text)
	if verbose && answer.Intent == domain.IntentCompliance {
		cmd.Printf("\n(grounded in %d document chunks)\n", answer.Retrieved)
	}
	return nil
}
