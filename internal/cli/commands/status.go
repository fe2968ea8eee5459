package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fina-agent/fina-console/internal/cli/types"
	"github.com/fina-agent/fina-console/internal/cli/ui"
	"github.com/fina-agent/fina-console/internal/domain"
)

var statusOutput string

// statusCmd is the status command
var statusCmd = &cobra.Command{
	Use:   "status <thread-id>",
	Short: "show the audit trail of a thread",
	Long: `Show a thread's review status, final decision, token usage and history.

Output formats:
  • tree - human readable (default)
  • yaml
  • json`,
	Example: `  $ finactl status 3f2a...
  $ finactl status 3f2a... -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "tree", "Output format: tree, yaml or json")
	statusCmd.SilenceUsage = true
}

func runStatus(cmd *cobra.Command, args []string) error {
	switch statusOutput {
	case "tree", "yaml", "json":
	default:
		ui.PrintError("invalid output format: %s", statusOutput)
		return fmt.Errorf("invalid arguments")
	}

	_, apiClient, err := loadAuthenticated()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	ts, err := apiClient.ThreadStatus(ctx, args[0])
	if err != nil {
		ui.PrintError("%s", domain.UserMessage(err))
		return fmt.Errorf("status failed")
	}

	var out string
	switch statusOutput {
	case "yaml":
		out, err = ui.RenderYAML(types.FromThreadStatus(*ts))
	case "json":
		out, err = ui.RenderJSON(types.FromThreadStatus(*ts))
	default:
		out = ui.RenderThreadTree(*ts)
	}
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("render failed")
	}

	fmt.Println(out)
	return nil
}
