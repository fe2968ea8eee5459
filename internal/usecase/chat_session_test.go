package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
	"github.com/fina-agent/fina-console/internal/domain/mocks"
	"github.com/fina-agent/fina-console/internal/transcript"
)

func newTestSession(t *testing.T, client domain.AgentClient) *ChatSession {
	t.Helper()
	store := transcript.NewStore()
	t.Cleanup(store.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewChatSession(client, store, logger)
}

func TestSendFoldsStream(t *testing.T) {
	var gotThread string
	client := &mocks.MockAgentClient{
		StreamChatFunc: func(ctx context.Context, message, threadID string) (<-chan entity.StreamEvent, <-chan error, error) {
			gotThread = threadID
			return mocks.Events(
				entity.StreamEvent{Type: entity.EventThinking, Node: "agent"},
				entity.StreamEvent{Type: entity.EventAnswer, Content: "Diversification "},
				entity.StreamEvent{Type: entity.EventAnswer, Content: "spreads risk."},
				entity.StreamEvent{Type: entity.EventFinal, Status: entity.FinalSuccess},
			), nil, nil
		},
	}
	s := newTestSession(t, client)

	id, err := s.Send(context.Background(), "  what is diversification?  ")
	require.NoError(t, err)
	assert.Equal(t, s.ThreadID(), gotThread)

	tr := s.Transcript()
	require.Equal(t, 2, tr.Len())
	assert.Equal(t, "what is diversification?", tr.At(0).Content)

	m, ok := tr.Find(id)
	require.True(t, ok)
	assert.Equal(t, "Diversification spreads risk.", m.Content)
	assert.Empty(t, m.Thinking)
	assert.Equal(t, entity.StatusCompleted, m.Status)
}

func TestSendRejectsInvalidInput(t *testing.T) {
	s := newTestSession(t, &mocks.MockAgentClient{})

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"blank", "   \n\t"},
		{"too long", strings.Repeat("a", maxMessageLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Send(context.Background(), tt.input)
			assert.True(t, domain.IsInvalidInput(err))
		})
	}
	assert.Equal(t, 0, s.Transcript().Len())
}

func TestSendPendingReviewLocksInput(t *testing.T) {
	calls := 0
	client := &mocks.MockAgentClient{
		StreamChatFunc: func(ctx context.Context, message, threadID string) (<-chan entity.StreamEvent, <-chan error, error) {
			calls++
			return mocks.Events(
				entity.StreamEvent{Type: entity.EventAnswer, Content: "Buy 10 shares of ACME."},
				entity.StreamEvent{Type: entity.EventFinal, Status: entity.FinalPendingReview, ThreadID: threadID},
			), nil, nil
		},
	}
	s := newTestSession(t, client)

	id, err := s.Send(context.Background(), "should I buy ACME?")
	require.NoError(t, err)

	select {
	case review := <-s.Reviews():
		assert.Equal(t, s.ThreadID(), review.ThreadID)
		assert.Equal(t, id, review.MessageID)
		assert.Equal(t, "Buy 10 shares of ACME.", review.Summary)
	default:
		t.Fatal("expected a review notification")
	}

	_, err = s.Send(context.Background(), "another question")
	assert.ErrorIs(t, err, domain.ErrInputLocked)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, s.Transcript().Len())
	assert.Equal(t, 1, s.Transcript().PendingCount())
}

func TestSendTransportFailure(t *testing.T) {
	boom := domain.NewTransportError(errors.New("connection refused"))

	tests := []struct {
		name   string
		stream func() (<-chan entity.StreamEvent, <-chan error, error)
	}{
		{
			name: "open fails",
			stream: func() (<-chan entity.StreamEvent, <-chan error, error) {
				return nil, nil, boom
			},
		},
		{
			name: "fails mid stream",
			stream: func() (<-chan entity.StreamEvent, <-chan error, error) {
				events, errs := mocks.Failing(boom, entity.StreamEvent{Type: entity.EventAnswer, Content: "partial"})
				return events, errs, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mocks.MockAgentClient{
				StreamChatFunc: func(ctx context.Context, message, threadID string) (<-chan entity.StreamEvent, <-chan error, error) {
					return tt.stream()
				},
			}
			s := newTestSession(t, client)

			id, err := s.Send(context.Background(), "hello")
			require.Error(t, err)
			assert.True(t, domain.IsTransport(err))

			m, ok := s.Transcript().Find(id)
			require.True(t, ok)
			assert.Equal(t, domain.TransportFailureText, m.Content)
			assert.Equal(t, entity.StatusNone, m.Status)
			assert.Equal(t, "hello", s.Transcript().At(0).Content)
		})
	}
}

func TestDecideApplies(t *testing.T) {
	var got entity.ApprovalRequest
	client := &mocks.MockAgentClient{
		ApproveFunc: func(ctx context.Context, req entity.ApprovalRequest) (*entity.ApprovalDecision, error) {
			got = req
			return &entity.ApprovalDecision{Status: entity.DecisionApproved, ThreadID: req.ThreadID, Response: "R"}, nil
		},
	}
	store := transcript.NewStore(transcript.WithInitial(pendingTranscript()))
	t.Cleanup(store.Close)
	s := NewChatSession(client, store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	review := entity.PendingReview{ThreadID: "t-1", MessageID: "X"}
	d, err := s.Decide(context.Background(), review, true, "SUP-9988", "user-1", "")
	require.NoError(t, err)
	assert.Equal(t, entity.DecisionApproved, d.Status)
	assert.Equal(t, entity.ApprovalRequest{
		ThreadID:     "t-1",
		Approve:      true,
		SupervisorID: "SUP-9988",
		UserID:       "user-1",
	}, got)

	tr := s.Transcript()
	require.Equal(t, 3, tr.Len())
	m, _ := tr.Find("X")
	assert.Equal(t, "R", m.Content)
	assert.Equal(t, entity.StatusApproved, m.Status)
	assert.False(t, tr.InputLocked())
}

func TestDecideErrorLeavesTranscript(t *testing.T) {
	client := &mocks.MockAgentClient{
		ApproveFunc: func(ctx context.Context, req entity.ApprovalRequest) (*entity.ApprovalDecision, error) {
			return nil, domain.NewApprovalError(403, "Supervisor is not authorized")
		},
	}
	store := transcript.NewStore(transcript.WithInitial(pendingTranscript()))
	t.Cleanup(store.Close)
	s := NewChatSession(client, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	before := s.Transcript().Messages()

	_, err := s.Decide(context.Background(), entity.PendingReview{ThreadID: "t-1"}, true, "SUP-0000", "u", "")
	require.Error(t, err)
	assert.True(t, domain.IsApproval(err))
	assert.Equal(t, "Supervisor is not authorized", domain.UserMessage(err))

	if diff := cmp.Diff(before, s.Transcript().Messages()); diff != "" {
		t.Errorf("transcript changed (-want +got):\n%s", diff)
	}
}

func TestResetStartsNewThread(t *testing.T) {
	client := &mocks.MockAgentClient{
		StreamChatFunc: func(ctx context.Context, message, threadID string) (<-chan entity.StreamEvent, <-chan error, error) {
			return mocks.Events(
				entity.StreamEvent{Type: entity.EventFinal, Content: "x", Status: entity.FinalPendingReview},
			), nil, nil
		},
	}
	s := newTestSession(t, client)
	first := s.ThreadID()

	_, err := s.Send(context.Background(), "buy?")
	require.NoError(t, err)

	second := s.Reset()
	assert.NotEqual(t, first, second)
	assert.Equal(t, second, s.ThreadID())
	assert.Equal(t, 0, s.Transcript().Len())
	assert.False(t, s.Transcript().InputLocked())

	select {
	case <-s.Reviews():
		t.Fatal("stale review survived reset")
	default:
	}
}

func TestSendRefusesSecondTurnWhileStreaming(t *testing.T) {
	release := make(chan struct{})
	client := &mocks.MockAgentClient{
		StreamChatFunc: func(ctx context.Context, message, threadID string) (<-chan entity.StreamEvent, <-chan error, error) {
			<-release
			return mocks.Events(
				entity.StreamEvent{Type: entity.EventAnswer, Content: "Buy 10 shares of " + message + "."},
				entity.StreamEvent{Type: entity.EventFinal, Status: entity.FinalPendingReview},
			), nil, nil
		},
	}
	s := newTestSession(t, client)

	first := make(chan error, 1)
	go func() {
		_, err := s.Send(context.Background(), "A")
		first <- err
	}()
	require.Eventually(t, func() bool {
		return s.Transcript().Len() == 2
	}, time.Second, 5*time.Millisecond)

	_, err := s.Send(context.Background(), "B")
	require.ErrorIs(t, err, domain.ErrInputLocked)

	close(release)
	require.NoError(t, <-first)

	tr := s.Transcript()
	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, 1, tr.PendingCount())
	assert.Equal(t, "Buy 10 shares of A.", tr.At(1).Content)

	_, err = s.Send(context.Background(), "C")
	assert.ErrorIs(t, err, domain.ErrInputLocked, "the pending review still gates input")
}

func TestSendReopensAfterTurn(t *testing.T) {
	client := &mocks.MockAgentClient{
		StreamChatFunc: func(ctx context.Context, message, threadID string) (<-chan entity.StreamEvent, <-chan error, error) {
			return mocks.Events(entity.StreamEvent{Type: entity.EventFinal, Content: "ok", Status: entity.FinalSuccess}), nil, nil
		},
	}
	s := newTestSession(t, client)

	for _, msg := range []string{"one", "two"} {
		_, err := s.Send(context.Background(), msg)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, s.Transcript().Len())
}
