package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fina-agent/fina-console/internal/cli/ui"
	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
)

var (
	approveReject     bool
	approveEdit       string
	approveSupervisor string
)

// approveCmd is the approve command
var approveCmd = &cobra.Command{
	Use:   "approve <thread-id>",
	Short: "approve or reject a recommendation awaiting review",
	Long: `Submit a supervisor decision for a thread whose answer is pending review.

The backend enforces governance: the supervisor must be registered, must not
be the user who created the thread, and each thread is decided only once.
Approving may replace the agent's draft with an edited response; rejecting
asks the agent for a safer alternative.`,
	Example: `  # Approve as the configured supervisor
  $ finactl approve 3f2a...

  # Approve with an edited answer
  $ finactl approve 3f2a... --edit "Consider a small, diversified position."

  # Reject
  $ finactl approve 3f2a... --reject`,
	Args: cobra.ExactArgs(1),
	RunE: runApprove,
}

func init() {
	approveCmd.Flags().BoolVar(&approveReject, "reject", false, "Reject instead of approve")
	approveCmd.Flags().StringVar(&approveEdit, "edit", "", "Replacement response to publish on approval")
	approveCmd.Flags().StringVar(&approveSupervisor, "supervisor", "", "Supervisor id (defaults to the configured one)")
	approveCmd.SilenceUsage = true
}

func runApprove(cmd *cobra.Command, args []string) error {
	if approveReject && approveEdit != "" {
		ui.PrintError("--edit only applies to approvals")
		return fmt.Errorf("invalid arguments")
	}

	cfg, apiClient, err := loadAuthenticated()
	if err != nil {
		return err
	}

	supervisorID := approveSupervisor
	if supervisorID == "" {
		supervisorID = cfg.SupervisorID
	}
	if supervisorID == "" {
		ui.PrintError("no supervisor id configured")
		fmt.Println("\nPass --supervisor <id>, run 'finactl login --supervisor <id>' or set FINA_SUPERVISOR_ID.")
		return fmt.Errorf("supervisor required")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	decision, err := apiClient.Approve(ctx, entity.ApprovalRequest{
		ThreadID:       args[0],
		Approve:        !approveReject,
		SupervisorID:   supervisorID,
		UserID:         cfg.UserID,
		EditedResponse: approveEdit,
	})
	if err != nil {
		ui.PrintErrorBox("Approval Failed", domain.UserMessage(err))
		return fmt.Errorf("approval failed")
	}

	printDecision(decision)
	if decision.Response != "" {
		fmt.Println()
		fmt.Println(decision.Response)
	}
	if decision.NewAgentResponse != "" {
		fmt.Println()
		ui.PrintWarningBox("Alternative Response", decision.NewAgentResponse)
	}

	return nil
}
