package usecase

import (
	"github.com/fina-agent/fina-console/internal/domain/entity"
	"github.com/fina-agent/fina-console/internal/transcript"
)

// ApprovedNotice is appended after an approved recommendation
const ApprovedNotice = "✅ Approved by supervisor. The recommendation has been finalized."

// ApplyDecision patches the most recent pending_review message with a supervisor
// decision. Decisions other than approved/rejected, or a transcript with nothing pending,
// leave the transcript unchanged.
func ApplyDecision(t transcript.Transcript, d entity.ApprovalDecision) transcript.Transcript {
	pending, ok := t.LatestPending()
	if !ok {
		return t
	}

	switch d.Status {
	case entity.DecisionApproved:
		next := t.Replace(pending.ID, func(m entity.Message) entity.Message {
			m.Status, _ = m.Status.Advance(entity.StatusApproved)
			if d.Response != "" {
				m.Content = d.Response
			}
			return m
		})
		return next.Append(entity.NewMessage(entity.RoleAssistant, ApprovedNotice, entity.StatusCompleted))

	case entity.DecisionRejected:
		next := t.Replace(pending.ID, func(m entity.Message) entity.Message {
			m.Status, _ = m.Status.Advance(entity.StatusRejected)
			return m
		})
		if d.NewAgentResponse != "" {
			next = next.Append(entity.NewMessage(entity.RoleAssistant, d.NewAgentResponse, entity.StatusCompleted))
		}
		return next
	}

	return t
}
