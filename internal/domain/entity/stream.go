package entity

import "fmt"

// EventType tags a StreamEvent
type EventType string

const (
	EventThinking EventType = "thinking"
	EventTool     EventType = "tool"
	EventAnswer   EventType = "answer"
	EventFinal    EventType = "final"
)

// FinalStatus is the terminal status carried by a final event
type FinalStatus string

const (
	FinalSuccess       FinalStatus = "success"
	FinalPendingReview FinalStatus = "pending_review"
	FinalBlocked       FinalStatus = "blocked"
)

// Usage is the token accounting reported by the backend on the final event
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	EstimatedCost    float64
}

// StreamEvent is one unit of the backend's event sequence
type StreamEvent struct {
	Type     EventType
	Content  string
	Node     string // graph node reported by thinking events
	Tool     string // tool name reported by tool events
	Status   FinalStatus
	ThreadID string
	Usage    *Usage
}

// Annotation renders the transient progress text for thinking and tool events.
func (e StreamEvent) Annotation() string {
	switch e.Type {
	case EventThinking:
		if e.Content != "" {
			return e.Content
		}
		if e.Node != "" {
			return fmt.Sprintf("[Node: %s] Processing...", e.Node)
		}
		return "Thinking..."
	case EventTool:
		if e.Tool != "" {
			return fmt.Sprintf("[Tool: %s] Running...", e.Tool)
		}
		if e.Content != "" {
			return e.Content
		}
		return "Running tool..."
	}
	return ""
}
