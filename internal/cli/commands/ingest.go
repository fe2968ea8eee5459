package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fina-agent/fina-console/internal/cli/ui"
	"github.com/fina-agent/fina-console/internal/domain"
)

// ingestCmd is the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <file.pdf>",
	Short: "upload a PDF the agent can search",
	Long: `Upload a PDF document into your private retrieval scope. The agent searches
it when answering your questions. Documents are removed on logout.`,
	Example: `  $ finactl ingest ./annual-report.pdf`,
	Args:    cobra.ExactArgs(1),
	RunE:    runIngest,
}

func init() {
	ingestCmd.SilenceUsage = true
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		ui.PrintError("only PDF files are supported: %s", path)
		return fmt.Errorf("invalid arguments")
	}

	f, err := os.Open(path)
	if err != nil {
		ui.PrintError("failed to open file: %v", err)
		return fmt.Errorf("file open failed")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		ui.PrintError("failed to stat file: %v", err)
		return fmt.Errorf("file open failed")
	}

	_, apiClient, err := loadAuthenticated()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	name := filepath.Base(path)
	ui.PrintInfo("Uploading %s (%s)...", name, humanize.Bytes(uint64(info.Size())))

	res, err := apiClient.Ingest(ctx, name, f)
	if err != nil {
		ui.PrintErrorBox("Upload Failed", domain.UserMessage(err))
		return fmt.Errorf("ingest failed")
	}

	ui.PrintSuccessBox("✓ Document Ingested", ui.RenderIngestSummary(*res, info.Size()))
	return nil
}
