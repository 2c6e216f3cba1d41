package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/complia-labs/complia-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Opens the interactive chat interface.

Each exchange is appended to a transcript so sessions can be reviewed
later. Failed questions are not recorded.

Controls:
  Enter    - Send question
  ↑/↓      - Scroll history
  Esc      - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Panic recovery to get stack traces out of the alt screen
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	// Load the corpus before entering the alt screen so the first
	// question does not stall on indexing.
	if indexerService != nil {
		cmd.Println("Loading corpus...")
		if _, err := indexerService.Index(cmd.Context(), false); err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}
	}

	model, err := tui.New(&tui.Ports{
		Assistant:  assistantService,
		Transcript: transcriptStore,
	})
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	model = model.WithContext(cmd.Context())

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}
