package entity

import "time"

// ThreadStatus is the audit view of a backend thread
type ThreadStatus struct {
	ThreadID      string
	Status        string
	FinalDecision string
	HistoryCount  int
	History       []HistoryEntry
	Usage         *Usage
}

// HistoryEntry is one message in a thread's audit history
type HistoryEntry struct {
	Role    string
	Content string
}

// IngestResult reports a processed document upload
type IngestResult struct {
	Status          string
	Filename        string
	ChunksProcessed int
	StorageMode     string
}

// Health is the backend health summary
type Health struct {
	Status         string
	NodeA          string
	NodeBConnected bool
	APIKeysSet     map[string]bool
	VectorDB       string
}

// History roles as reported by the audit endpoint
const (
	HistoryHuman = "human"
	HistoryAI    = "ai"
)

// FinalDecisionPending is reported until a supervisor decides
const FinalDecisionPending = "pending"

// Thread is the backend record of one agent run
type Thread struct {
	ID             string
	UserID         string
	History        []HistoryEntry
	AwaitingReview bool
	FinalDecision  string // pending, approved, rejected
	DecisionBy     string
	DecisionAt     string
	Usage          Usage
	CreatedAt      time.Time
}

// Status reports completed or pending_review
func (t *Thread) Status() string {
	if t.AwaitingReview {
		return string(StatusPendingReview)
	}
	return string(StatusCompleted)
}

// Draft returns the latest agent message
func (t *Thread) Draft() string {
	for i := len(t.History) - 1; i >= 0; i-- {
		if t.History[i].Role == HistoryAI {
			return t.History[i].Content
		}
	}
	return ""
}

// Document is an ingested file in a user's retrieval scope
type Document struct {
	UserID     string
	Filename   string
	Size       int64
	Chunks     int
	IngestedAt time.Time
}
