package ui

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"sigs.k8s.io/yaml"

	"github.com/fina-agent/fina-console/internal/domain/entity"
)

var (
	// Tree node styles
	threadStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)  // Cyan
	humanStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))             // Blue
	aiStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))            // Pink
	keyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))            // Gray
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true) // Yellow
)

// historyPreviewWidth bounds each history line in the tree view
const historyPreviewWidth = 100

// RenderThreadTree renders the audit view of a thread as a tree
func RenderThreadTree(ts entity.ThreadStatus) string {
	root := tree.Root(fmt.Sprintf("Thread %s", threadStyle.Render(ts.ThreadID)))

	root.Child(formatKeyValue("Status:", ColoredStatus(ts.Status)))
	root.Child(formatKeyValue("Decision:", ColoredStatus(ts.FinalDecision)))

	if ts.Usage != nil && ts.Usage.TotalTokens > 0 {
		root.Child(formatKeyValue("Tokens:", fmt.Sprintf("%s (prompt %d, completion %d)",
			humanize.Comma(int64(ts.Usage.TotalTokens)),
			ts.Usage.PromptTokens,
			ts.Usage.CompletionTokens,
		)))
	}

	history := tree.Root(formatKeyValue("History:", fmt.Sprintf("%d messages", ts.HistoryCount)))
	if len(ts.History) == 0 {
		history.Child(keyStyle.Render("(empty)"))
	}
	for _, h := range ts.History {
		history.Child(formatHistoryEntry(h))
	}
	root.Child(history)

	return root.String()
}

func formatHistoryEntry(h entity.HistoryEntry) string {
	label := humanStyle.Render(h.Role)
	if h.Role == entity.HistoryAI {
		label = aiStyle.Render(h.Role)
	}
	return fmt.Sprintf("%s %s", label, preview(h.Content, historyPreviewWidth))
}

// preview flattens s to one line of at most n runes
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// formatKeyValue formats a key-value pair
func formatKeyValue(key, value string) string {
	return fmt.Sprintf("%s %s",
		keyStyle.Render(key),
		value,
	)
}

// ColoredStatus returns a colored review status
func ColoredStatus(status string) string {
	switch status {
	case "approved", "completed", "success", "online", "healthy":
		return color.GreenString(status)
	case "pending_review", "pending":
		return color.YellowString(status)
	case "rejected", "blocked":
		return color.RedString(status)
	default:
		return status
	}
}

// RenderIngestSummary renders the outcome of an upload
func RenderIngestSummary(res entity.IngestResult, size int64) string {
	return strings.Join([]string{
		formatKeyValue("File:        ", res.Filename),
		formatKeyValue("Size:        ", humanize.Bytes(uint64(size))),
		formatKeyValue("Chunks:      ", highlightStyle.Render(humanize.Comma(int64(res.ChunksProcessed)))),
		formatKeyValue("Storage mode:", res.StorageMode),
	}, "\n")
}

// RenderHealth renders the backend health summary
func RenderHealth(server string, h entity.Health) string {
	lines := []string{
		formatKeyValue("Server:   ", server),
		formatKeyValue("Status:   ", ColoredStatus(h.Status)),
		formatKeyValue("Agent:    ", ColoredStatus(h.NodeA)),
		formatKeyValue("Vector DB:", h.VectorDB),
	}
	if h.NodeBConnected {
		lines = append(lines, formatKeyValue("Node B:   ", color.GreenString("connected")))
	}
	return strings.Join(lines, "\n")
}

// RenderYAML renders v (JSON-tagged) as YAML
func RenderYAML(v any) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to render yaml: %w", err)
	}
	return string(out), nil
}

// RenderJSON renders v as indented JSON
func RenderJSON(v any) (string, error) {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render json: %w", err)
	}
	return string(out), nil
}
