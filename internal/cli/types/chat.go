package types

import "github.com/fina-agent/fina-console/internal/domain/entity"

// ChatRequest is the body of POST /chat/stream
type ChatRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id"`
}

// StreamEvent is one `data:` frame of the chat stream
type StreamEvent struct {
	Type     string `json:"type"`              // thinking, tool, answer, final
	Content  string `json:"content,omitempty"` // fragment, or authoritative text on final
	Tool     string `json:"tool,omitempty"`
	Node     string `json:"node,omitempty"`
	Status   string `json:"status,omitempty"` // final only: success, pending_review, blocked
	ThreadID string `json:"thread_id,omitempty"`
	Usage    *Usage `json:"usage,omitempty"`
}

// Usage is the token accounting attached to the final frame
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	EstimatedCost    float64 `json:"estimated_cost"`
}

// ToEntity converts the wire frame to the domain event
func (e StreamEvent) ToEntity() entity.StreamEvent {
	ev := entity.StreamEvent{
		Type:     entity.EventType(e.Type),
		Content:  e.Content,
		Node:     e.Node,
		Tool:     e.Tool,
		Status:   entity.FinalStatus(e.Status),
		ThreadID: e.ThreadID,
	}
	if e.Usage != nil {
		ev.Usage = &entity.Usage{
			PromptTokens:     e.Usage.PromptTokens,
			CompletionTokens: e.Usage.CompletionTokens,
			TotalTokens:      e.Usage.TotalTokens,
			EstimatedCost:    e.Usage.EstimatedCost,
		}
	}
	return ev
}
