package simulator

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fina-agent/fina-console/internal/config"
	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
	"github.com/fina-agent/fina-console/internal/infrastructure/memory"
	"github.com/fina-agent/fina-console/internal/metrics"
)

func testConfig() config.AgentConfig {
	return config.AgentConfig{
		Supervisors: map[string]string{
			"SUP-9988": "Senior Portfolio Manager - Area A",
			"SUP-1122": "Compliance Officer - Area B",
		},
		RiskKeywords:      []string{"buy", "sell", "trade", "allocate", "invest"},
		SensitiveKeywords: []string{"risk", "recommendation", "portfolio", "assets", "advice"},
		FinanceKeywords:   []string{"stock", "share", "fund", "market", "diversif", "tax"},
		RiskThreshold:     2,
		HighRiskWeight:    2,
		ChunkSize:         1000,
		ChunkOverlap:      100,
		MaxUploadSize:     "1MB",
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(
		testConfig(),
		memory.NewThreadRepository(),
		memory.NewDocumentRepository(),
		metrics.NewRecorder(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)
	return e
}

func runTurn(t *testing.T, e *Engine, userID, message string) []entity.StreamEvent {
	t.Helper()
	ch, err := e.Stream(context.Background(), &domain.ChatRequest{UserID: userID, ThreadID: "client-thread", Message: message})
	require.NoError(t, err)

	var events []entity.StreamEvent
	for ev := range ch {
		events = append(events, ev)
	}
	require.NotEmpty(t, events)
	return events
}

func answerText(events []entity.StreamEvent) string {
	var b strings.Builder
	for _, ev := range events {
		if ev.Type == entity.EventAnswer {
			b.WriteString(ev.Content)
		}
	}
	return b.String()
}

func lastEvent(events []entity.StreamEvent) entity.StreamEvent {
	return events[len(events)-1]
}

func TestStreamBlocksOutOfScope(t *testing.T) {
	e := newTestEngine(t)
	events := runTurn(t, e, "u-1", "How to make a pepperoni pizza")

	assert.Contains(t, strings.ToLower(answerText(events)), "cannot process")

	final := lastEvent(events)
	assert.Equal(t, entity.EventFinal, final.Type)
	assert.Equal(t, entity.FinalBlocked, final.Status)
	require.NotNil(t, final.Usage)
	assert.Positive(t, final.Usage.TotalTokens)

	ts, err := e.ThreadStatus(context.Background(), final.ThreadID)
	require.NoError(t, err)
	assert.Equal(t, "completed", ts.Status)
	assert.Equal(t, entity.FinalDecisionPending, ts.FinalDecision)
	assert.Equal(t, 2, ts.HistoryCount)
}

func TestStreamInformational(t *testing.T) {
	e := newTestEngine(t)
	events := runTurn(t, e, "u-1", "What is diversification?")

	assert.Equal(t, entity.EventThinking, events[0].Type)
	assert.Equal(t, nodeGuardrailIn, events[0].Node)

	final := lastEvent(events)
	assert.Equal(t, entity.FinalSuccess, final.Status)
	assert.Equal(t, final.Content, answerText(events))
	assert.NotEmpty(t, final.ThreadID)
	assert.NotEqual(t, "client-thread", final.ThreadID)
}

func TestStreamRiskyAnswerNeedsReview(t *testing.T) {
	e := newTestEngine(t)
	events := runTurn(t, e, "u-1", "Should I buy Tesla shares?")

	final := lastEvent(events)
	assert.Equal(t, entity.FinalPendingReview, final.Status)
	assert.Contains(t, answerText(events), "Note: This information is for educational purposes")

	ts, err := e.ThreadStatus(context.Background(), final.ThreadID)
	require.NoError(t, err)
	assert.Equal(t, "pending_review", ts.Status)
}

func TestStreamUsesDocuments(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Ingest(context.Background(), "u-1", "q3-report.pdf", strings.NewReader("%PDF-1.7 quarterly numbers"))
	require.NoError(t, err)

	events := runTurn(t, e, "u-1", "Summarize the highlights")

	var tools []string
	for _, ev := range events {
		if ev.Type == entity.EventTool {
			tools = append(tools, ev.Tool)
		}
	}
	assert.Equal(t, []string{toolSearchDocuments}, tools)
	assert.Contains(t, answerText(events), "q3-report.pdf")

	// other users do not see the document
	other := runTurn(t, e, "u-2", "Summarize the highlights")
	assert.Equal(t, entity.FinalBlocked, lastEvent(other).Status)
}

func TestStreamRejectsInvalidMessage(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Stream(context.Background(), &domain.ChatRequest{UserID: "u-1", Message: "  "})
	assert.True(t, domain.IsInvalidInput(err))

	_, err = e.Stream(context.Background(), &domain.ChatRequest{UserID: "u-1", Message: strings.Repeat("x", maxMessageLength+1)})
	assert.True(t, domain.IsInvalidInput(err))
}

func TestStreamStopsWhenClientLeaves(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := e.Stream(ctx, &domain.ChatRequest{UserID: "u-1", Message: "Should I sell my stock?"})
	require.NoError(t, err)

	<-ch
	cancel()
	for range ch {
	}
}
