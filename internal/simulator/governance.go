package simulator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
)

// errAlreadyProcessed short-circuits Update when the thread was sealed earlier
var errAlreadyProcessed = errors.New("already processed")

// Approve applies a supervisor decision. Checks run in order: thread exists, supervisor
// is registered, requester and approver differ, requester owns the thread, thread not
// yet decided, thread awaiting review.
func (e *Engine) Approve(ctx context.Context, req entity.ApprovalRequest) (*entity.ApprovalDecision, error) {
	logger := e.logger.With("thread_id", req.ThreadID, "supervisor_id", req.SupervisorID)

	auditor, ok := e.cfg.Supervisors[supervisorKey(req.SupervisorID)]
	var (
		decision entity.ApprovalDecision
		prior    string
	)

	err := e.threads.Update(ctx, req.ThreadID, func(t *entity.Thread) error {
		if !ok {
			logger.Warn("unauthorized supervisor access")
			return domain.NewForbiddenError("Invalid Supervisor credentials")
		}
		if supervisorKey(req.UserID) == supervisorKey(req.SupervisorID) {
			return domain.NewForbiddenError("Conflict of Interest: Creator and Approver must be different")
		}
		if t.UserID != "" && t.UserID != req.UserID {
			logger.Error("access violation", "user_id", req.UserID, "owner", t.UserID)
			return domain.NewForbiddenError("Security Violation: Scope mismatch")
		}
		if t.FinalDecision == string(entity.DecisionApproved) || t.FinalDecision == string(entity.DecisionRejected) {
			prior = t.FinalDecision
			return errAlreadyProcessed
		}
		if !t.AwaitingReview {
			return domain.NewInvalidInputError("No pending review found for this thread.")
		}

		decidedAt := e.now().UTC().Format(time.RFC3339Nano)
		t.DecisionBy = req.SupervisorID
		t.DecisionAt = decidedAt
		t.AwaitingReview = false

		decision = entity.ApprovalDecision{
			ThreadID:   t.ID,
			Auditor:    auditor,
			DecisionAt: decidedAt,
		}

		if req.Approve {
			t.FinalDecision = string(entity.DecisionApproved)
			if req.EditedResponse != "" {
				replaceDraft(t, req.EditedResponse)
				logger.Info("draft edited by supervisor")
			}
			decision.Status = entity.DecisionApproved
			decision.Response = t.Draft()
			return nil
		}

		t.FinalDecision = string(entity.DecisionRejected)
		alternative := alternativeAnswer(t)
		t.History = append(t.History,
			entity.HistoryEntry{Role: entity.HistoryHuman, Content: RejectionFeedback},
			entity.HistoryEntry{Role: entity.HistoryAI, Content: alternative},
		)
		decision.Status = entity.DecisionRejected
		decision.Message = "Rejection feedback sent to agent."
		decision.NewAgentResponse = alternative
		return nil
	})

	switch {
	case errors.Is(err, errAlreadyProcessed):
		e.metrics.ApprovalProcessed(string(entity.DecisionAlreadyProcessed))
		return &entity.ApprovalDecision{
			Status:   entity.DecisionAlreadyProcessed,
			ThreadID: req.ThreadID,
			Message:  fmt.Sprintf("This thread was already finalized as: %s", prior),
		}, nil
	case err != nil:
		if domain.IsNotFound(err) {
			return nil, threadNotFound(req.ThreadID, err)
		}
		return nil, err
	}

	e.metrics.ApprovalProcessed(string(decision.Status))
	logger.Info("supervisor decision recorded", "decision", decision.Status, "auditor", decision.Auditor)
	return &decision, nil
}

// replaceDraft substitutes the latest agent message with the supervisor's edit
// supervisorKey folds an id the way configured supervisor ids are stored: config keys
// lose their case when loaded, so ids compare case-insensitively everywhere.
func supervisorKey(id string) string {
	return strings.ToUpper(id)
}

func replaceDraft(t *entity.Thread, edited string) {
	for i := len(t.History) - 1; i >= 0; i-- {
		if t.History[i].Role == entity.HistoryAI {
			t.History[i].Content = edited
			return
		}
	}
	t.History = append(t.History, entity.HistoryEntry{Role: entity.HistoryAI, Content: edited})
}

// alternativeAnswer is the agent's conservative reply after a rejection
func alternativeAnswer(t *entity.Thread) string {
	var question string
	for _, h := range t.History {
		if h.Role == entity.HistoryHuman {
			question = h.Content
			break
		}
	}
	topic := strings.TrimRight(strings.TrimSpace(question), "?.! ")
	return withDisclaimer(fmt.Sprintf(
		"Understood. Instead of acting on \"%s\" directly, a more conservative alternative is to keep the current allocation, "+
			"build an emergency reserve first and revisit the decision with a broadly diversified index fund after reviewing your goals.",
		topic,
	))
}

func threadNotFound(id string, err error) error {
	return &domain.DomainError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("Thread ID '%s' not found", id),
		Err:     err,
	}
}
