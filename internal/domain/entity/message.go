package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a transcript entry
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Status is the review lifecycle of a transcript entry
type Status string

const (
	StatusNone          Status = ""
	StatusPendingReview Status = "pending_review"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusCompleted     Status = "completed"
)

// rank orders statuses along none -> pending_review -> {approved, rejected} -> completed.
func (s Status) rank() int {
	switch s {
	case StatusPendingReview:
		return 1
	case StatusApproved, StatusRejected:
		return 2
	case StatusCompleted:
		return 3
	default:
		return 0
	}
}

// Advance returns next if it lies strictly ahead of s, otherwise s and false.
func (s Status) Advance(next Status) (Status, bool) {
	if next.rank() <= s.rank() {
		return s, false
	}
	return next, true
}

// String returns a display label
func (s Status) String() string {
	if s == StatusNone {
		return "none"
	}
	return string(s)
}

// Message is one transcript entry
type Message struct {
	ID        string
	Role      Role
	Content   string
	Thinking  string // transient progress annotation
	Status    Status
	Timestamp time.Time
}

// NewMessage mints a message with a fresh client-side id
func NewMessage(role Role, content string, status Status) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Status:    status,
		Timestamp: time.Now(),
	}
}

// IsPendingAssistant reports whether m is an assistant message awaiting review
func (m Message) IsPendingAssistant() bool {
	return m.Role == RoleAssistant && m.Status == StatusPendingReview
}
