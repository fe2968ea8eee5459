package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fina-agent/fina-console/internal/cli/config"
	"github.com/fina-agent/fina-console/internal/cli/ui"
	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
	"github.com/fina-agent/fina-console/internal/transcript"
	"github.com/fina-agent/fina-console/internal/usecase"
)

var askDecide string

// askCmd is the ask command
var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "ask a single question and stream the answer",
	Long: `Send one message to the agent and print the answer as it streams.

When the answer needs supervisor review, the thread id is printed so the
decision can be made later with 'finactl approve'. With --decide the decision
is submitted immediately using the configured supervisor id.`,
	Example: `  # Ask a question
  $ finactl ask "What is diversification?"

  # Ask and approve the recommendation right away
  $ finactl ask "Should I buy Tesla shares?" --decide approve`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askDecide, "decide", "", "Decide a pending review immediately (approve or reject)")
	askCmd.SilenceUsage = true
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askDecide != "" && askDecide != "approve" && askDecide != "reject" {
		ui.PrintError("invalid --decide value: %s (must be approve or reject)", askDecide)
		return fmt.Errorf("invalid arguments")
	}

	cfg, apiClient, err := loadAuthenticated()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	printer := ui.NewStreamPrinter(os.Stdout)
	store := transcript.NewStore(transcript.WithObserver(printer.Observe))
	defer store.Close()

	session := usecase.NewChatSession(apiClient, store, slog.Default())

	if _, err := session.Send(ctx, strings.Join(args, " ")); err != nil {
		printer.Finish()
		if domain.IsTransport(err) {
			// the failure text is already part of the transcript
			return fmt.Errorf("chat failed")
		}
		ui.PrintError("%s", domain.UserMessage(err))
		return fmt.Errorf("chat failed")
	}
	printer.Finish()

	select {
	case review := <-session.Reviews():
		return handleReview(ctx, cfg, session, printer, review)
	default:
		return nil
	}
}

func handleReview(ctx context.Context, cfg *config.Config, session *usecase.ChatSession, printer *ui.StreamPrinter, review entity.PendingReview) error {
	fmt.Println()
	ui.PrintWarningBox("Supervisor Review Required",
		fmt.Sprintf("Thread: %s\nThis recommendation is held until a supervisor decides.", review.ThreadID))

	if askDecide == "" {
		fmt.Println()
		ui.PrintInfo("Decide with:")
		ui.PrintBold("  finactl approve %s", review.ThreadID)
		ui.PrintBold("  finactl approve %s --reject", review.ThreadID)
		return nil
	}

	if cfg.SupervisorID == "" {
		ui.PrintError("no supervisor id configured")
		fmt.Println("\nRun 'finactl login --supervisor <id>' or set FINA_SUPERVISOR_ID.")
		return fmt.Errorf("supervisor required")
	}

	decision, err := session.Decide(ctx, review, askDecide == "approve", cfg.SupervisorID, cfg.UserID, "")
	if err != nil {
		ui.PrintErrorBox("Approval Failed", domain.UserMessage(err))
		return fmt.Errorf("approval failed")
	}
	printer.Finish()

	fmt.Println()
	printDecision(decision)
	return nil
}
