package mocks

import (
	"context"
	"io"

	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
)

// MockAgentBackend is a mock implementation of domain.AgentBackend
type MockAgentBackend struct {
	StreamFunc       func(ctx context.Context, req *domain.ChatRequest) (<-chan entity.StreamEvent, error)
	ApproveFunc      func(ctx context.Context, req entity.ApprovalRequest) (*entity.ApprovalDecision, error)
	ThreadStatusFunc func(ctx context.Context, threadID string) (*entity.ThreadStatus, error)
	IngestFunc       func(ctx context.Context, userID, filename string, r io.Reader) (*entity.IngestResult, error)
	CleanupFunc      func(ctx context.Context, userID string) error
}

// Stream mocks the Stream method
func (m *MockAgentBackend) Stream(ctx context.Context, req *domain.ChatRequest) (<-chan entity.StreamEvent, error) {
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, req)
	}
	return Events(), nil
}

// Approve mocks the Approve method
func (m *MockAgentBackend) Approve(ctx context.Context, req entity.ApprovalRequest) (*entity.ApprovalDecision, error) {
	if m.ApproveFunc != nil {
		return m.ApproveFunc(ctx, req)
	}
	return &entity.ApprovalDecision{Status: entity.DecisionApproved, ThreadID: req.ThreadID}, nil
}

// ThreadStatus mocks the ThreadStatus method
func (m *MockAgentBackend) ThreadStatus(ctx context.Context, threadID string) (*entity.ThreadStatus, error) {
	if m.ThreadStatusFunc != nil {
		return m.ThreadStatusFunc(ctx, threadID)
	}
	return &entity.ThreadStatus{ThreadID: threadID, Status: "completed", FinalDecision: "pending"}, nil
}

// Ingest mocks the Ingest method
func (m *MockAgentBackend) Ingest(ctx context.Context, userID, filename string, r io.Reader) (*entity.IngestResult, error) {
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, userID, filename, r)
	}
	return &entity.IngestResult{Status: "success", Filename: filename}, nil
}

// Cleanup mocks the Cleanup method
func (m *MockAgentBackend) Cleanup(ctx context.Context, userID string) error {
	if m.CleanupFunc != nil {
		return m.CleanupFunc(ctx, userID)
	}
	return nil
}

// Health mocks the Health method
func (m *MockAgentBackend) Health(ctx context.Context) *entity.Health {
	return &entity.Health{Status: "online", NodeA: "healthy"}
}
