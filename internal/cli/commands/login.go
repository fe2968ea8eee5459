package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/fina-agent/fina-console/internal/cli/client"
	"github.com/fina-agent/fina-console/internal/cli/config"
	"github.com/fina-agent/fina-console/internal/cli/ui"
	"github.com/fina-agent/fina-console/internal/domain"
)

var (
	loginUserID       string
	loginSupervisorID string
)

// loginCmd is the login command
var loginCmd = &cobra.Command{
	Use:   "login [server]",
	Short: "store credentials for a FINA backend",
	Long: `Store the backend address, bearer token and identities locally.

The token is issued by your session provider (or 'mockagent token' for local
development). It is saved in ~/.finactl/config.json and sent with every
subsequent request. The supervisor id is only needed to approve or reject
recommendations.

If server is not provided, defaults to http://localhost:8000.`,
	Example: `  # Login to the default server
  $ finactl login

  # Login to a remote backend as analyst with a supervisor identity
  $ finactl login https://fina.example.com -u analyst-1 --supervisor SUP-9988`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUserID, "user", "u", "", "User id the token was issued for")
	loginCmd.Flags().StringVar(&loginSupervisorID, "supervisor", "", "Supervisor id used for approvals")

	// Silence usage to avoid showing help on every error
	loginCmd.SilenceUsage = true
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}

	server := config.DefaultServer
	if len(args) > 0 {
		server = args[0]
	}

	// 1. Prompt for the token (hidden input)
	var token string
	if err := survey.AskOne(&survey.Password{Message: "Access token:"}, &token, survey.WithValidator(survey.Required)); err != nil {
		ui.PrintError("failed to read token: %v", err)
		return fmt.Errorf("input failed")
	}

	// 2. Prompt for identities not given as flags
	if loginUserID == "" {
		prompt := &survey.Input{Message: "User ID:", Default: cfg.UserID}
		if err := survey.AskOne(prompt, &loginUserID, survey.WithValidator(survey.Required)); err != nil {
			ui.PrintError("failed to read user id: %v", err)
			return fmt.Errorf("input failed")
		}
	}
	if loginSupervisorID == "" {
		prompt := &survey.Input{Message: "Supervisor ID (optional):", Default: cfg.SupervisorID}
		if err := survey.AskOne(prompt, &loginSupervisorID); err != nil {
			ui.PrintError("failed to read supervisor id: %v", err)
			return fmt.Errorf("input failed")
		}
	}

	// 3. Check the backend is reachable
	apiClient, err := client.NewAPIClient(server, token)
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return fmt.Errorf("client creation failed")
	}

	ui.PrintInfo("Connecting to %s...", apiClient.Server())

	health, err := apiClient.Health(ctx)
	if err != nil {
		ui.PrintErrorBox("Login Failed", domain.UserMessage(err))
		return fmt.Errorf("backend unreachable")
	}

	// 4. Save config to local file
	cfg.Server = apiClient.Server()
	cfg.AccessToken = token
	cfg.UserID = loginUserID
	cfg.SupervisorID = loginSupervisorID

	if err := cfg.Save(); err != nil {
		ui.PrintError("failed to save config: %v", err)
		return fmt.Errorf("config save failed")
	}

	// 5. Display success message
	configPath, _ := config.GetConfigPath()
	successContent := fmt.Sprintf(`Server:         %s
Backend status: %s
User ID:        %s
Supervisor ID:  %s
Config saved:   %s`,
		cfg.Server,
		health.Status,
		cfg.UserID,
		orUnknown(cfg.SupervisorID),
		configPath,
	)

	ui.PrintSuccessBox("✓ Login Successful", successContent)

	// 6. Display usage hints
	fmt.Println()
	ui.PrintInfo("You can now use the following commands:")
	ui.PrintBold("  finactl chat                 # Interactive chat")
	ui.PrintBold("  finactl ask <question>       # Single question")
	ui.PrintBold("  finactl ingest <file.pdf>    # Add a document to your scope")

	return nil
}
