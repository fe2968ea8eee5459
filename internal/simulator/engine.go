// Package simulator is an in-process stand-in for the FINA agent graph: input guardrail,
// analyst, optional document retrieval, risk gate for human review and output guardrail.
package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fina-agent/fina-console/internal/config"
	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
	"github.com/fina-agent/fina-console/internal/metrics"
)

const (
	maxMessageLength = 10000

	nodeGuardrailIn  = "guardrail_in"
	nodeAgent        = "agent"
	nodeTools        = "tools"
	nodeGuardrailOut = "guardrail_out"
	nodeReviewGate   = "human_review_gate"

	toolSearchDocuments = "search_documents"
)

// Engine implements domain.AgentBackend over in-memory repositories
type Engine struct {
	cfg         config.AgentConfig
	policy      policy
	uploadLimit int64
	threads     domain.ThreadRepository
	docs        domain.DocumentRepository
	metrics     *metrics.Recorder
	logger      *slog.Logger
	now         func() time.Time
}

var _ domain.AgentBackend = (*Engine)(nil)

// NewEngine creates a simulator engine.
//
// Parameters:
//   - cfg: agent behaviour (keywords, supervisors, pacing)
//   - threads: thread checkpoint store
//   - docs: per-user document scope
//   - rec: metrics recorder, may be nil
//   - logger: structured logger
func NewEngine(cfg config.AgentConfig, threads domain.ThreadRepository, docs domain.DocumentRepository, rec *metrics.Recorder, logger *slog.Logger) (*Engine, error) {
	limit, err := cfg.UploadLimit()
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:         cfg,
		policy:      newPolicy(cfg),
		uploadLimit: limit,
		threads:     threads,
		docs:        docs,
		metrics:     rec,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Stream runs one agent turn. Every turn gets its own backend thread, reported in the
// final event; the client's thread id is kept only for log correlation.
func (e *Engine) Stream(ctx context.Context, req *domain.ChatRequest) (<-chan entity.StreamEvent, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, domain.NewInvalidInputError("message is required")
	}
	if len(message) > maxMessageLength {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("message too long (max %d characters)", maxMessageLength))
	}

	docs, err := e.docs.List(ctx, req.UserID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	thread := &entity.Thread{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		History:       []entity.HistoryEntry{{Role: entity.HistoryHuman, Content: message}},
		FinalDecision: entity.FinalDecisionPending,
		CreatedAt:     e.now(),
	}
	if err := e.threads.Create(ctx, thread); err != nil {
		return nil, err
	}

	logger := e.logger.With("thread_id", thread.ID, "client_thread_id", req.ThreadID, "user_id", req.UserID)
	logger.Info("agent turn started", "documents", len(docs))

	ch := make(chan entity.StreamEvent, 16)
	go func() {
		defer close(ch)
		status := e.run(ctx, logger, thread, message, docs, ch)
		e.metrics.StreamFinished(string(status))
		logger.Info("agent turn finished", "status", status)
	}()
	return ch, nil
}

// run walks the simulated graph and emits its events. It returns the final status, or
// "aborted" if the client went away.
func (e *Engine) run(ctx context.Context, logger *slog.Logger, thread *entity.Thread, message string, docs []entity.Document, ch chan<- entity.StreamEvent) entity.FinalStatus {
	emit := func(ev entity.StreamEvent) bool {
		select {
		case ch <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	pause := func() bool {
		if e.cfg.TokenDelay <= 0 {
			return ctx.Err() == nil
		}
		t := time.NewTimer(e.cfg.TokenDelay)
		defer t.Stop()
		select {
		case <-t.C:
			return true
		case <-ctx.Done():
			return false
		}
	}
	const aborted entity.FinalStatus = "aborted"

	if !emit(entity.StreamEvent{Type: entity.EventThinking, Node: nodeGuardrailIn}) {
		return aborted
	}

	// input guardrail
	if !e.policy.inScope(message, len(docs) > 0) {
		answer := blockedAnswer()
		usage := e.usage(message, answer)
		e.finishThread(ctx, logger, thread.ID, answer, false, usage)

		if !emit(entity.StreamEvent{Type: entity.EventAnswer, Content: answer}) {
			return aborted
		}
		if !emit(entity.StreamEvent{Type: entity.EventFinal, Status: entity.FinalBlocked, ThreadID: thread.ID, Usage: &usage}) {
			return aborted
		}
		return entity.FinalBlocked
	}

	if !emit(entity.StreamEvent{Type: entity.EventThinking, Node: nodeAgent}) {
		return aborted
	}

	var names []string
	if len(docs) > 0 {
		if !emit(entity.StreamEvent{Type: entity.EventTool, Tool: toolSearchDocuments, Node: nodeTools}) || !pause() {
			return aborted
		}
		for _, d := range docs {
			names = append(names, d.Filename)
		}
		if !emit(entity.StreamEvent{Type: entity.EventThinking, Node: nodeAgent}) {
			return aborted
		}
	}

	draft := draftAnswer(message, names)
	review := e.policy.needsReview(draft)
	answer := withDisclaimer(draft)

	for _, frag := range fragments(answer) {
		if !emit(entity.StreamEvent{Type: entity.EventAnswer, Content: frag}) || !pause() {
			return aborted
		}
	}

	if !emit(entity.StreamEvent{Type: entity.EventThinking, Node: nodeGuardrailOut}) {
		return aborted
	}

	usage := e.usage(message, answer)
	e.finishThread(ctx, logger, thread.ID, answer, review, usage)

	status := entity.FinalSuccess
	if review {
		status = entity.FinalPendingReview
		_, hits := e.policy.riskScore(draft)
		logger.Info("draft held for supervisor review", "node", nodeReviewGate, "keywords", hits)
	}
	if !emit(entity.StreamEvent{Type: entity.EventFinal, Content: answer, Status: status, ThreadID: thread.ID, Usage: &usage}) {
		return aborted
	}
	return status
}

func (e *Engine) finishThread(ctx context.Context, logger *slog.Logger, id, answer string, review bool, usage entity.Usage) {
	err := e.threads.Update(ctx, id, func(t *entity.Thread) error {
		t.History = append(t.History, entity.HistoryEntry{Role: entity.HistoryAI, Content: answer})
		t.AwaitingReview = review
		t.Usage = addUsage(t.Usage, usage)
		return nil
	})
	if err != nil {
		logger.Error("failed to checkpoint thread", "error", err)
	}
}

func (e *Engine) usage(prompt, completion string) entity.Usage {
	p := estimateTokens(prompt)
	c := estimateTokens(completion)
	return entity.Usage{
		PromptTokens:     p,
		CompletionTokens: c,
		TotalTokens:      p + c,
		EstimatedCost:    float64(p+c) * e.cfg.CostPerToken,
	}
}

func addUsage(a, b entity.Usage) entity.Usage {
	return entity.Usage{
		PromptTokens:     a.PromptTokens + b.PromptTokens,
		CompletionTokens: a.CompletionTokens + b.CompletionTokens,
		TotalTokens:      a.TotalTokens + b.TotalTokens,
		EstimatedCost:    a.EstimatedCost + b.EstimatedCost,
	}
}
