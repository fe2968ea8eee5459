package usecase

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fina-agent/fina-console/internal/domain/entity"
	"github.com/fina-agent/fina-console/internal/transcript"
)

func pendingTranscript() transcript.Transcript {
	return transcript.New(
		entity.Message{ID: "u1", Role: entity.RoleUser, Content: "Should I buy ACME?"},
		entity.Message{ID: "X", Role: entity.RoleAssistant, Content: "Buy 10 shares.", Status: entity.StatusPendingReview},
	)
}

func TestApplyDecisionApproved(t *testing.T) {
	got := ApplyDecision(pendingTranscript(), entity.ApprovalDecision{
		Status:   entity.DecisionApproved,
		Response: "R",
	})

	want := []entity.Message{
		{ID: "u1", Role: entity.RoleUser, Content: "Should I buy ACME?"},
		{ID: "X", Role: entity.RoleAssistant, Content: "R", Status: entity.StatusApproved},
		{Role: entity.RoleAssistant, Content: ApprovedNotice, Status: entity.StatusCompleted},
	}
	if diff := cmp.Diff(want, got.Messages(), ignoreGenerated); diff != "" {
		t.Errorf("unexpected transcript (-want +got):\n%s", diff)
	}
	assert.True(t, strings.HasPrefix(got.At(2).Content, "✅"))
	assert.NotEmpty(t, got.At(2).ID)
	assert.False(t, got.InputLocked())
}

func TestApplyDecisionApprovedWithoutResponse(t *testing.T) {
	got := ApplyDecision(pendingTranscript(), entity.ApprovalDecision{Status: entity.DecisionApproved})

	m, ok := got.Find("X")
	require.True(t, ok)
	assert.Equal(t, "Buy 10 shares.", m.Content)
	assert.Equal(t, entity.StatusApproved, m.Status)
	assert.Equal(t, 3, got.Len())
}

func TestApplyDecisionRejected(t *testing.T) {
	got := ApplyDecision(pendingTranscript(), entity.ApprovalDecision{
		Status:           entity.DecisionRejected,
		NewAgentResponse: "R2",
	})

	want := []entity.Message{
		{ID: "u1", Role: entity.RoleUser, Content: "Should I buy ACME?"},
		{ID: "X", Role: entity.RoleAssistant, Content: "Buy 10 shares.", Status: entity.StatusRejected},
		{Role: entity.RoleAssistant, Content: "R2", Status: entity.StatusCompleted},
	}
	if diff := cmp.Diff(want, got.Messages(), ignoreGenerated); diff != "" {
		t.Errorf("unexpected transcript (-want +got):\n%s", diff)
	}
}

func TestApplyDecisionRejectedWithoutAlternative(t *testing.T) {
	got := ApplyDecision(pendingTranscript(), entity.ApprovalDecision{Status: entity.DecisionRejected})
	assert.Equal(t, 2, got.Len())
	m, _ := got.Find("X")
	assert.Equal(t, entity.StatusRejected, m.Status)
}

func TestApplyDecisionNoop(t *testing.T) {
	tests := []struct {
		name     string
		tr       transcript.Transcript
		decision entity.ApprovalDecision
	}{
		{
			name:     "nothing pending",
			tr:       transcript.New(entity.Message{ID: "a", Role: entity.RoleAssistant, Content: "x", Status: entity.StatusCompleted}),
			decision: entity.ApprovalDecision{Status: entity.DecisionApproved, Response: "R"},
		},
		{
			name:     "empty transcript",
			tr:       transcript.New(),
			decision: entity.ApprovalDecision{Status: entity.DecisionRejected, NewAgentResponse: "R2"},
		},
		{
			name:     "already processed",
			tr:       pendingTranscript(),
			decision: entity.ApprovalDecision{Status: entity.DecisionAlreadyProcessed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyDecision(tt.tr, tt.decision)
			if diff := cmp.Diff(tt.tr.Messages(), got.Messages()); diff != "" {
				t.Errorf("transcript changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyDecisionTargetsMostRecentPending(t *testing.T) {
	tr := transcript.New(
		entity.Message{ID: "old", Role: entity.RoleAssistant, Status: entity.StatusPendingReview},
		entity.Message{ID: "new", Role: entity.RoleAssistant, Status: entity.StatusPendingReview},
	)
	got := ApplyDecision(tr, entity.ApprovalDecision{Status: entity.DecisionRejected})

	old, _ := got.Find("old")
	latest, _ := got.Find("new")
	assert.Equal(t, entity.StatusPendingReview, old.Status)
	assert.Equal(t, entity.StatusRejected, latest.Status)
}
