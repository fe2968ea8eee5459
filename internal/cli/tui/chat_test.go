package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
	"github.com/fina-agent/fina-console/internal/domain/mocks"
	"github.com/fina-agent/fina-console/internal/transcript"
	"github.com/fina-agent/fina-console/internal/usecase"
)

var supervisor = Options{UserID: "analyst-1", SupervisorID: "SUP-9988"}

func newTestModel(t *testing.T, client domain.AgentClient, opts Options) (chatModel, *usecase.ChatSession) {
	t.Helper()
	store := transcript.NewStore()
	t.Cleanup(store.Close)
	session := usecase.NewChatSession(client, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m := initialModel(context.Background(), session, opts, nil)
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, session
}

func update(m chatModel, msg tea.Msg) (chatModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(chatModel), cmd
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// turn submits text and plays the resulting commands the way the program loop would
func turn(t *testing.T, m chatModel, session *usecase.ChatSession, text string) chatModel {
	t.Helper()
	m.input.SetValue(text)

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.streaming)
	require.NotNil(t, cmd)

	m, _ = update(m, cmd())
	m, _ = update(m, transcriptMsg{t: session.Transcript()})
	return m
}

func pendingClient() *mocks.MockAgentClient {
	return &mocks.MockAgentClient{
		StreamChatFunc: func(ctx context.Context, message, threadID string) (<-chan entity.StreamEvent, <-chan error, error) {
			return mocks.Events(
				entity.StreamEvent{Type: entity.EventAnswer, Content: "Buy 10 shares."},
				entity.StreamEvent{Type: entity.EventFinal, Content: "Buy 10 shares.", Status: entity.FinalPendingReview, ThreadID: "backend-1"},
			), nil, nil
		},
	}
}

func TestEnterStreamsReply(t *testing.T) {
	client := &mocks.MockAgentClient{
		StreamChatFunc: func(ctx context.Context, message, threadID string) (<-chan entity.StreamEvent, <-chan error, error) {
			return mocks.Events(
				entity.StreamEvent{Type: entity.EventThinking, Node: "agent"},
				entity.StreamEvent{Type: entity.EventAnswer, Content: "Hello"},
				entity.StreamEvent{Type: entity.EventFinal, Content: "Hello there", Status: entity.FinalSuccess},
			), nil, nil
		},
	}
	m, session := newTestModel(t, client, supervisor)

	m = turn(t, m, session, "hi")

	assert.False(t, m.streaming)
	assert.NoError(t, m.err)
	assert.Empty(t, m.input.Value())
	require.Equal(t, 2, m.transcript.Len())
	assert.Equal(t, "hi", m.transcript.At(0).Content)
	assert.Equal(t, "Hello there", m.transcript.At(1).Content)
	assert.Contains(t, m.contentView.View(), "Hello there")
}

func TestInputGateWhilePending(t *testing.T) {
	m, session := newTestModel(t, pendingClient(), supervisor)
	m = turn(t, m, session, "Should I buy?")
	m, _ = update(m, reviewMsg{review: <-session.Reviews()})

	require.NotNil(t, m.review)
	assert.Equal(t, "backend-1", m.review.ThreadID)
	assert.False(t, m.inputOpen())

	m, _ = update(m, key('x'))
	assert.Empty(t, m.input.Value())

	m.input.SetValue("another question")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.streaming)
	assert.Equal(t, 2, m.transcript.Len())

	view := m.View()
	assert.Contains(t, view, "input locked")
	assert.Contains(t, view, "Supervisor review required")
}

func TestApproveKeyReconciles(t *testing.T) {
	client := pendingClient()
	var got entity.ApprovalRequest
	client.ApproveFunc = func(ctx context.Context, req entity.ApprovalRequest) (*entity.ApprovalDecision, error) {
		got = req
		return &entity.ApprovalDecision{Status: entity.DecisionApproved, ThreadID: req.ThreadID}, nil
	}
	m, session := newTestModel(t, client, supervisor)
	m = turn(t, m, session, "Should I buy?")
	m, _ = update(m, reviewMsg{review: <-session.Reviews()})

	m, cmd := update(m, key('a'))
	require.NotNil(t, cmd)
	assert.True(t, m.deciding)

	m, _ = update(m, cmd())
	m, _ = update(m, transcriptMsg{t: session.Transcript()})

	assert.Equal(t, entity.ApprovalRequest{
		ThreadID:     "backend-1",
		Approve:      true,
		SupervisorID: "SUP-9988",
		UserID:       "analyst-1",
	}, got)
	assert.Nil(t, m.review)
	assert.True(t, m.inputOpen())
	require.Equal(t, 3, m.transcript.Len())
	assert.Equal(t, entity.StatusApproved, m.transcript.At(1).Status)
	assert.Equal(t, usecase.ApprovedNotice, m.transcript.At(2).Content)
}

func TestApprovalErrorKeepsReview(t *testing.T) {
	client := pendingClient()
	client.ApproveFunc = func(ctx context.Context, req entity.ApprovalRequest) (*entity.ApprovalDecision, error) {
		return nil, domain.NewApprovalError(403, "Conflict of Interest: Creator and Approver must be different")
	}
	m, session := newTestModel(t, client, supervisor)
	m = turn(t, m, session, "Should I buy?")
	m, _ = update(m, reviewMsg{review: <-session.Reviews()})

	m, cmd := update(m, key('r'))
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())

	require.NotNil(t, m.review)
	assert.Equal(t, "Conflict of Interest: Creator and Approver must be different", m.approvalErr)
	assert.Equal(t, entity.StatusPendingReview, session.Transcript().At(1).Status)
	assert.Contains(t, m.View(), "Approval failed")
}

func TestDecideWithoutSupervisor(t *testing.T) {
	m, session := newTestModel(t, pendingClient(), Options{UserID: "analyst-1"})
	m = turn(t, m, session, "Should I buy?")
	m, _ = update(m, reviewMsg{review: <-session.Reviews()})

	m, cmd := update(m, key('a'))

	assert.Nil(t, cmd)
	assert.False(t, m.deciding)
	assert.Contains(t, m.approvalErr, "no supervisor id")
}

func TestCtrlNStartsNewSession(t *testing.T) {
	m, session := newTestModel(t, pendingClient(), supervisor)
	before := session.ThreadID()
	m = turn(t, m, session, "Should I buy?")
	m, _ = update(m, reviewMsg{review: <-session.Reviews()})

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlN})
	require.NotNil(t, cmd)
	assert.False(t, m.inputOpen())

	m, _ = update(m, cmd())

	assert.NotEqual(t, before, session.ThreadID())
	assert.Equal(t, 0, m.transcript.Len())
	assert.Equal(t, 0, session.Transcript().Len())
	assert.Nil(t, m.review)
	assert.True(t, m.inputOpen())
}

func TestTransportFailureShown(t *testing.T) {
	client := &mocks.MockAgentClient{
		StreamChatFunc: func(ctx context.Context, message, threadID string) (<-chan entity.StreamEvent, <-chan error, error) {
			return nil, nil, domain.NewTransportError(errors.New("connection refused"))
		},
	}
	m, session := newTestModel(t, client, supervisor)

	m = turn(t, m, session, "hi")

	assert.True(t, domain.IsTransport(m.err))
	assert.Equal(t, domain.TransportFailureText, m.transcript.At(1).Content)
	assert.True(t, m.inputOpen())
}

func TestWrapLine(t *testing.T) {
	var m chatModel
	assert.Equal(t, "abcde\nfghij\nk", m.wrapLine("abcdefghijk", 5))
	assert.Equal(t, "短い", m.wrapLine("短い", 4))
	assert.Equal(t, "短い\n文字", m.wrapLine("短い文字", 4))
}

func TestNewSessionKeyInRunningProgram(t *testing.T) {
	p := NewChatProgram(pendingClient(), supervisor, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(p.store.Close)
	before := p.session.ThreadID()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	program := p.newProgram(ctx, tea.WithInput(nil), tea.WithOutput(io.Discard))

	done := make(chan error, 1)
	go func() {
		_, err := program.Run()
		done <- err
	}()

	go program.Send(tea.KeyMsg{Type: tea.KeyCtrlN})
	require.Eventually(t, func() bool {
		return p.session.ThreadID() != before
	}, 5*time.Second, 10*time.Millisecond)

	go program.Send(tea.KeyMsg{Type: tea.KeyEsc})
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("program did not exit after Esc")
	}
	assert.Equal(t, 0, p.session.Transcript().Len())
}

func TestNotifyKeepsLatestTranscript(t *testing.T) {
	p := &ChatProgram{updates: make(chan transcript.Transcript, 1)}
	first := transcript.New(entity.NewMessage(entity.RoleUser, "one", entity.StatusNone))
	second := first.Append(entity.NewMessage(entity.RoleAssistant, "two", entity.StatusNone))

	p.notify(first)
	p.notify(second)

	select {
	case got := <-p.updates:
		assert.Equal(t, 2, got.Len())
	default:
		t.Fatal("no transcript handed off")
	}
}
