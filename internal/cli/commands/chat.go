package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fina-agent/fina-console/internal/cli/tui"
	"github.com/fina-agent/fina-console/internal/cli/ui"
)

// chatCmd is the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "start interactive chat with the FINA agent",
	Long: `Start an interactive chat session with the FINA agent.

Features:
  • Streaming answers with the agent's progress
  • Risky recommendations wait for a supervisor decision
  • Approve or reject in place when you hold a supervisor id`,
	Example: `  # Start interactive chat
  $ finactl chat

  # Keyboard controls:
  • Enter sends the message
  • a / r approves or rejects the pending recommendation
  • Ctrl+N starts a new session
  • Esc quits`,
	RunE: runChat,
}

func init() {
	chatCmd.SilenceUsage = true
}

func runChat(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		ui.PrintError("unexpected argument: %s", args[0])
		fmt.Println("\nRun 'finactl chat' to start interactive session.")
		return fmt.Errorf("invalid arguments")
	}

	cfg, apiClient, err := loadAuthenticated()
	if err != nil {
		return err
	}

	program := tui.NewChatProgram(apiClient, tui.Options{
		UserID:       cfg.UserID,
		SupervisorID: cfg.SupervisorID,
	}, slog.Default())
	if err := program.Run(cmd.Context()); err != nil {
		return fmt.Errorf("failed to run chat TUI: %w", err)
	}

	return nil
}
