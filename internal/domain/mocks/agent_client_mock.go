package mocks

import (
	"context"

	"github.com/fina-agent/fina-console/internal/domain/entity"
)

// MockAgentClient is a mock implementation of domain.AgentClient
type MockAgentClient struct {
	StreamChatFunc func(ctx context.Context, message, threadID string) (<-chan entity.StreamEvent, <-chan error, error)
	ApproveFunc    func(ctx context.Context, req entity.ApprovalRequest) (*entity.ApprovalDecision, error)
}

// StreamChat mocks the StreamChat method
func (m *MockAgentClient) StreamChat(ctx context.Context, message, threadID string) (<-chan entity.StreamEvent, <-chan error, error) {
	if m.StreamChatFunc != nil {
		return m.StreamChatFunc(ctx, message, threadID)
	}
	return Events(), nil, nil
}

// Approve mocks the Approve method
func (m *MockAgentClient) Approve(ctx context.Context, req entity.ApprovalRequest) (*entity.ApprovalDecision, error) {
	if m.ApproveFunc != nil {
		return m.ApproveFunc(ctx, req)
	}
	status := entity.DecisionRejected
	if req.Approve {
		status = entity.DecisionApproved
	}
	return &entity.ApprovalDecision{Status: status, ThreadID: req.ThreadID}, nil
}

// Events returns a closed channel pre-filled with events
func Events(events ...entity.StreamEvent) <-chan entity.StreamEvent {
	ch := make(chan entity.StreamEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

// Failing returns an event channel that yields events and then reports err
func Failing(err error, events ...entity.StreamEvent) (<-chan entity.StreamEvent, <-chan error) {
	ch := make(chan entity.StreamEvent, len(events))
	errCh := make(chan error, 1)
	for _, ev := range events {
		ch <- ev
	}
	errCh <- err
	close(ch)
	close(errCh)
	return ch, errCh
}
