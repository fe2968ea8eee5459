package commands

import (
	"fmt"
	"log/slog"

	"github.com/fina-agent/fina-console/internal/cli/client"
	"github.com/fina-agent/fina-console/internal/cli/config"
	"github.com/fina-agent/fina-console/internal/cli/ui"
	"github.com/fina-agent/fina-console/internal/domain/entity"
)

// newClient builds an API client for the configured server and token
func newClient(cfg *config.Config) (*client.APIClient, error) {
	apiClient, err := client.NewAPIClient(cfg.Server, cfg.AccessToken, client.WithLogger(slog.Default()))
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return nil, fmt.Errorf("client creation failed")
	}
	return apiClient, nil
}

// loadAuthenticated loads the config and refuses to continue without a token
func loadAuthenticated() (*config.Config, *client.APIClient, error) {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return nil, nil, fmt.Errorf("config load failed")
	}

	if !cfg.IsAuthenticated() {
		ui.PrintError("not authenticated, please login first")
		fmt.Println("\nRun 'finactl login' to authenticate.")
		return nil, nil, fmt.Errorf("authentication required")
	}

	apiClient, err := newClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, apiClient, nil
}

// printDecision reports the outcome of a supervisor decision
func printDecision(d *entity.ApprovalDecision) {
	switch d.Status {
	case entity.DecisionApproved:
		ui.PrintSuccess("Thread %s approved by %s", d.ThreadID, orUnknown(d.Auditor))
	case entity.DecisionRejected:
		ui.PrintWarning("Thread %s rejected by %s", d.ThreadID, orUnknown(d.Auditor))
	case entity.DecisionAlreadyProcessed:
		ui.PrintInfo("%s", d.Message)
	default:
		ui.PrintInfo("Decision: %s", d.Status)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
