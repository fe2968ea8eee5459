package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fina-agent/fina-console/internal/cli/ui"
	"github.com/fina-agent/fina-console/internal/domain"
)

// logoutCmd is the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "clear server-side session data and forget the token",
	Long: `Ask the backend to delete your uploaded documents and threads, then remove
the stored token. The token is removed even if the backend cannot be reached.`,
	Example: `  $ finactl logout`,
	Args:    cobra.NoArgs,
	RunE:    runLogout,
}

func init() {
	logoutCmd.SilenceUsage = true
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, apiClient, err := loadAuthenticated()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	if err := apiClient.Logout(ctx); err != nil {
		ui.PrintWarning("server-side cleanup failed: %s", domain.UserMessage(err))
	}

	cfg.AccessToken = ""
	if err := cfg.Save(); err != nil {
		ui.PrintError("failed to save config: %v", err)
		return fmt.Errorf("config save failed")
	}

	ui.PrintSuccess("Logged out of %s", cfg.Server)
	return nil
}
