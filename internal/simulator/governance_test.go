package simulator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
)

func pendingThread(t *testing.T, e *Engine, userID string) string {
	t.Helper()
	final := lastEvent(runTurn(t, e, userID, "Should I buy Tesla shares?"))
	require.Equal(t, entity.FinalPendingReview, final.Status)
	return final.ThreadID
}

func TestApproveGovernance(t *testing.T) {
	e := newTestEngine(t)
	pending := pendingThread(t, e, "u-1")
	done := lastEvent(runTurn(t, e, "u-1", "What is diversification?")).ThreadID

	tests := []struct {
		name    string
		req     entity.ApprovalRequest
		check   func(error) bool
		message string
	}{
		{
			name:    "unknown thread",
			req:     entity.ApprovalRequest{ThreadID: "nope", SupervisorID: "SUP-9988", UserID: "u-1"},
			check:   domain.IsNotFound,
			message: "Thread ID 'nope' not found",
		},
		{
			name:    "unregistered supervisor",
			req:     entity.ApprovalRequest{ThreadID: pending, SupervisorID: "SUP-0000", UserID: "u-1"},
			check:   domain.IsForbidden,
			message: "Invalid Supervisor credentials",
		},
		{
			name:    "conflict of interest",
			req:     entity.ApprovalRequest{ThreadID: pending, SupervisorID: "SUP-9988", UserID: "SUP-9988"},
			check:   domain.IsForbidden,
			message: "Conflict of Interest: Creator and Approver must be different",
		},
		{
			name:    "conflict of interest ignores case",
			req:     entity.ApprovalRequest{ThreadID: pending, SupervisorID: "SUP-9988", UserID: "sup-9988"},
			check:   domain.IsForbidden,
			message: "Conflict of Interest: Creator and Approver must be different",
		},
		{
			name:    "scope mismatch",
			req:     entity.ApprovalRequest{ThreadID: pending, SupervisorID: "SUP-9988", UserID: "u-2"},
			check:   domain.IsForbidden,
			message: "Security Violation: Scope mismatch",
		},
		{
			name:    "nothing pending",
			req:     entity.ApprovalRequest{ThreadID: done, SupervisorID: "SUP-9988", UserID: "u-1"},
			check:   domain.IsInvalidInput,
			message: "No pending review found for this thread.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Approve(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error class: %v", err)
			assert.Equal(t, tt.message, domain.UserMessage(err))
		})
	}

	// refused attempts leave the thread pending
	ts, err := e.ThreadStatus(context.Background(), pending)
	require.NoError(t, err)
	assert.Equal(t, "pending_review", ts.Status)
}

func TestApproveSupervisorIDIgnoresCase(t *testing.T) {
	e := newTestEngine(t)
	pending := pendingThread(t, e, "u-1")

	d, err := e.Approve(context.Background(), entity.ApprovalRequest{
		ThreadID:     pending,
		Approve:      true,
		SupervisorID: "sup-9988",
		UserID:       "u-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DecisionApproved, d.Status)
	assert.Equal(t, "Senior Portfolio Manager - Area A", d.Auditor)
}

func TestApproveWithEditThenIdempotent(t *testing.T) {
	e := newTestEngine(t)
	id := pendingThread(t, e, "u-1")

	d, err := e.Approve(context.Background(), entity.ApprovalRequest{
		ThreadID:       id,
		Approve:        true,
		SupervisorID:   "SUP-9988",
		UserID:         "u-1",
		EditedResponse: "Buy no more than 5% of your portfolio.",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DecisionApproved, d.Status)
	assert.Equal(t, "Senior Portfolio Manager - Area A", d.Auditor)
	assert.Equal(t, "Buy no more than 5% of your portfolio.", d.Response)
	assert.NotEmpty(t, d.DecisionAt)

	again, err := e.Approve(context.Background(), entity.ApprovalRequest{
		ThreadID: id, Approve: false, SupervisorID: "SUP-1122", UserID: "u-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DecisionAlreadyProcessed, again.Status)
	assert.Equal(t, "This thread was already finalized as: approved", again.Message)

	ts, err := e.ThreadStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "completed", ts.Status)
	assert.Equal(t, "approved", ts.FinalDecision)
}

func TestRejectProducesAlternative(t *testing.T) {
	e := newTestEngine(t)
	id := pendingThread(t, e, "u-1")

	d, err := e.Approve(context.Background(), entity.ApprovalRequest{
		ThreadID: id, SupervisorID: "sup-1122", UserID: "u-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DecisionRejected, d.Status)
	assert.Equal(t, "Compliance Officer - Area B", d.Auditor)
	assert.Equal(t, "Rejection feedback sent to agent.", d.Message)
	assert.Contains(t, d.NewAgentResponse, "conservative alternative")

	ts, err := e.ThreadStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "rejected", ts.FinalDecision)
	assert.Equal(t, 4, ts.HistoryCount)
	assert.Equal(t, RejectionFeedback, ts.History[2].Content)
}
