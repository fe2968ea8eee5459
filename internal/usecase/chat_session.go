package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
	"github.com/fina-agent/fina-console/internal/transcript"
)

// maxMessageLength mirrors the backend's request validation
const maxMessageLength = 10000

// ChatSession drives one conversation thread: it opens streams, folds their events into
// the store and applies supervisor decisions arriving out of band.
type ChatSession struct {
	client domain.AgentClient
	store  *transcript.Store
	logger *slog.Logger

	mu       sync.Mutex
	threadID string
	activeID string // assistant message of the turn in flight

	reviews chan entity.PendingReview
}

// NewChatSession creates a session bound to a fresh thread id.
//
// Parameters:
//   - client: agent backend client
//   - store: transcript store; the session never closes it
//   - logger: structured logger
func NewChatSession(client domain.AgentClient, store *transcript.Store, logger *slog.Logger) *ChatSession {
	return &ChatSession{
		client:   client,
		store:    store,
		logger:   logger,
		threadID: uuid.NewString(),
		reviews:  make(chan entity.PendingReview, 1),
	}
}

// ThreadID returns the current thread id
func (s *ChatSession) ThreadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID
}

// Reviews is the approval inbox: one notification per final event in pending_review.
func (s *ChatSession) Reviews() <-chan entity.PendingReview {
	return s.reviews
}

// Transcript returns the current transcript
func (s *ChatSession) Transcript() transcript.Transcript {
	return s.store.Snapshot()
}

// Send submits input and consumes the resulting stream until the backend closes it.
// It returns the id of the assistant message the stream was folded into. A transport
// failure is folded into the transcript and also returned.
func (s *ChatSession) Send(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", domain.NewInvalidInputError("message is required")
	}
	if len(input) > maxMessageLength {
		return "", domain.NewInvalidInputError(fmt.Sprintf("message too long (max %d characters)", maxMessageLength))
	}

	assistantID, threadID, err := s.startTurn(input)
	if err != nil {
		return "", err
	}
	defer s.endTurn()

	logger := s.logger.With("thread_id", threadID, "message_id", assistantID)
	logger.Info("chat stream started")

	events, errs, err := s.client.StreamChat(ctx, input, threadID)
	if err != nil {
		logger.Error("failed to open chat stream", "error", err)
		s.store.Apply(func(t transcript.Transcript) transcript.Transcript {
			return ApplyTransportFailure(t, assistantID)
		})
		return assistantID, err
	}

	count := 0
	for events != nil || errs != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			count++
			s.applyEvent(logger, assistantID, threadID, ev)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err == nil {
				continue
			}
			// drain what the reader delivered before failing
			if events != nil {
				for ev := range events {
					count++
					s.applyEvent(logger, assistantID, threadID, ev)
				}
			}
			logger.Error("chat stream failed", "error", err, "events", count)
			s.store.Apply(func(t transcript.Transcript) transcript.Transcript {
				return ApplyTransportFailure(t, assistantID)
			})
			return assistantID, err
		}
	}

	logger.Info("chat stream finished", "events", count)
	return assistantID, nil
}

// startTurn closes the gate for the whole turn: it refuses input while another turn is
// in flight or the tail awaits review, then records the new assistant message as active.
func (s *ChatSession) startTurn(input string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID != "" {
		return "", "", domain.ErrInputLocked
	}

	var (
		assistantID string
		locked      bool
	)
	s.store.Apply(func(t transcript.Transcript) transcript.Transcript {
		if t.InputLocked() {
			locked = true
			return t
		}
		var next transcript.Transcript
		next, assistantID = StartTurn(t, input)
		return next
	})
	if locked {
		return "", "", domain.ErrInputLocked
	}

	s.activeID = assistantID
	return assistantID, s.threadID, nil
}

func (s *ChatSession) endTurn() {
	s.mu.Lock()
	s.activeID = ""
	s.mu.Unlock()
}

func (s *ChatSession) applyEvent(logger *slog.Logger, id, threadID string, ev entity.StreamEvent) {
	var review *entity.PendingReview
	s.store.Apply(func(t transcript.Transcript) transcript.Transcript {
		var next transcript.Transcript
		next, review = ApplyStreamEvent(t, id, threadID, ev)
		return next
	})
	if review == nil {
		return
	}

	logger.Info("response pending supervisor review", "review_thread_id", review.ThreadID)
	select {
	case s.reviews <- *review:
	default:
		logger.Warn("approval inbox full, dropping review notification", "review_thread_id", review.ThreadID)
	}
}

// Decide submits a supervisor decision for review and reconciles the transcript with
// the backend's answer. A refused approval leaves the transcript untouched.
func (s *ChatSession) Decide(ctx context.Context, review entity.PendingReview, approve bool, supervisorID, userID, edited string) (*entity.ApprovalDecision, error) {
	req := entity.ApprovalRequest{
		ThreadID:       review.ThreadID,
		Approve:        approve,
		SupervisorID:   supervisorID,
		UserID:         userID,
		EditedResponse: edited,
	}

	decision, err := s.client.Approve(ctx, req)
	if err != nil {
		s.logger.Warn("approval request failed",
			"thread_id", review.ThreadID,
			"approve", approve,
			"error", err,
		)
		return nil, err
	}

	s.Reconcile(*decision)
	s.logger.Info("approval decision applied",
		"thread_id", review.ThreadID,
		"status", decision.Status,
		"auditor", decision.Auditor,
	)
	return decision, nil
}

// Reconcile folds one decision into the transcript
func (s *ChatSession) Reconcile(decision entity.ApprovalDecision) transcript.Transcript {
	return s.store.Apply(func(t transcript.Transcript) transcript.Transcript {
		return ApplyDecision(t, decision)
	})
}

// Reset clears the transcript and starts a new thread
func (s *ChatSession) Reset() string {
	s.store.Reset()

	s.mu.Lock()
	s.threadID = uuid.NewString()
	id := s.threadID
	s.mu.Unlock()

	// stale notifications belong to the previous thread
	select {
	case <-s.reviews:
	default:
	}

	s.logger.Info("new chat session", "thread_id", id)
	return id
}
