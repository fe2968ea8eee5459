package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fina-agent/fina-console/internal/cli/config"
	"github.com/fina-agent/fina-console/internal/cli/ui"
	"github.com/fina-agent/fina-console/internal/domain"
)

// healthCmd is the health command
var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "check the backend",
	Example: `  $ finactl health`,
	Args:    cobra.NoArgs,
	RunE:    runHealth,
}

func init() {
	healthCmd.SilenceUsage = true
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}

	apiClient, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	h, err := apiClient.Health(ctx)
	if err != nil {
		ui.PrintError("%s", domain.UserMessage(err))
		return fmt.Errorf("health check failed")
	}

	fmt.Println(ui.RenderHealth(apiClient.Server(), *h))
	return nil
}
