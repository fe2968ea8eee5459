package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fina-agent/fina-console/internal/cli/config"
	"github.com/fina-agent/fina-console/internal/cli/ui"
	"github.com/fina-agent/fina-console/pkg/logger"
)

const version = "0.1.0"

// rootCmd is the root command
var rootCmd = &cobra.Command{
	Use:     "finactl",
	Short:   "FINA agentic finance console",
	Version: version,
	Long: `A terminal client for the FINA agent backend. Streams agent answers, gates
risky recommendations behind supervisor review, and manages the documents the
agent can search on your behalf.`,
	Example: `  # Authenticate against a backend
  $ finactl login http://localhost:8000

  # Start interactive chat
  $ finactl chat

  # Ask a single question and approve the answer as supervisor
  $ finactl ask "Should I buy Tesla shares?" --decide approve

  # Get help on a specific command
  $ finactl status --help`,
	PersistentPreRunE: setupLogging,
}

// Execute executes the root command
func Execute() error {
	rootCmd.SetVersionTemplate(formatVersion())
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)

	// Set custom template with bold uppercase headers
	rootCmd.SetUsageTemplate(usageTemplate())
	rootCmd.SetHelpTemplate(usageTemplate())
}

// setupLogging routes slog and hertz logs to the configured sink before any command runs
func setupLogging(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}
	if err := logger.Setup(cfg.Log); err != nil {
		ui.PrintError("failed to initialize logging: %v", err)
		return fmt.Errorf("logging setup failed")
	}
	return nil
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}

// formatVersion formats the version output
func formatVersion() string {
	return fmt.Sprintf("finactl version %s\n", version)
}
