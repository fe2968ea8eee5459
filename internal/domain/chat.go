package domain

import (
	"context"
	"io"

	"github.com/fina-agent/fina-console/internal/domain/entity"
)

// ============ Client side ============

// AgentClient is the remote agent backend as seen by the console
type AgentClient interface {
	// StreamChat opens one event stream for message on threadID.
	// The event channel is closed when the backend closes the connection; a transport
	// failure mid-stream is delivered on the error channel.
	StreamChat(ctx context.Context, message, threadID string) (<-chan entity.StreamEvent, <-chan error, error)

	// Approve submits a supervisor decision for a pending thread
	Approve(ctx context.Context, req entity.ApprovalRequest) (*entity.ApprovalDecision, error)
}

// ============ Backend side (simulator) ============

// ChatRequest is an inbound chat turn
type ChatRequest struct {
	UserID   string
	ThreadID string
	Message  string
}

// AgentBackend drives the simulated agent behind the HTTP handlers
type AgentBackend interface {
	// Stream runs one agent turn and emits its events; the channel is closed at the end.
	Stream(ctx context.Context, req *ChatRequest) (<-chan entity.StreamEvent, error)

	// Approve applies a supervisor decision with governance checks
	Approve(ctx context.Context, req entity.ApprovalRequest) (*entity.ApprovalDecision, error)

	// ThreadStatus returns the audit view of a thread
	ThreadStatus(ctx context.Context, threadID string) (*entity.ThreadStatus, error)

	// Ingest stores an uploaded document in the user's ephemeral scope
	Ingest(ctx context.Context, userID, filename string, r io.Reader) (*entity.IngestResult, error)

	// Cleanup drops every document and thread owned by userID
	Cleanup(ctx context.Context, userID string) error

	// Health reports backend status
	Health(ctx context.Context) *entity.Health
}
