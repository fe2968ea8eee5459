package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fina-agent/fina-console/internal/cli/config"
	"github.com/fina-agent/fina-console/internal/cli/ui"
)

// configCmd is the parent config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "inspect local configuration",
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "print the effective configuration",
	Long: `Print the configuration after applying ~/.finactl/config.json, .env and
FINA_* environment overrides. The access token is redacted.`,
	Example: `  $ finactl config view`,
	Args:    cobra.NoArgs,
	RunE:    runConfigView,
}

func init() {
	configCmd.AddCommand(configViewCmd)
	configViewCmd.SilenceUsage = true
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}

	out, err := ui.RenderYAML(cfg.Redacted())
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("render failed")
	}

	if path, err := config.GetConfigPath(); err == nil {
		fmt.Println(ui.Styles.Dim.Render("# " + path))
	}
	fmt.Print(out)
	return nil
}
