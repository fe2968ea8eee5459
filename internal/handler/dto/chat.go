package dto

import "github.com/fina-agent/fina-console/internal/domain/entity"

// ChatStreamRequest is the body of POST /chat/stream
type ChatStreamRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id"`
}

// StreamEvent is written as one `data:` frame
type StreamEvent struct {
	Type     string `json:"type"`
	Content  string `json:"content,omitempty"`
	Tool     string `json:"tool,omitempty"`
	Node     string `json:"node,omitempty"`
	Status   string `json:"status,omitempty"`
	ThreadID string `json:"thread_id,omitempty"`
	Usage    *Usage `json:"usage,omitempty"`
}

// Usage token accounting
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	EstimatedCost    float64 `json:"estimated_cost"`
}

// ToStreamEvent converts a domain event to its frame
func ToStreamEvent(ev entity.StreamEvent) StreamEvent {
	return StreamEvent{
		Type:     string(ev.Type),
		Content:  ev.Content,
		Tool:     ev.Tool,
		Node:     ev.Node,
		Status:   string(ev.Status),
		ThreadID: ev.ThreadID,
		Usage:    toUsage(ev.Usage),
	}
}

func toUsage(u *entity.Usage) *Usage {
	if u == nil {
		return nil
	}
	return &Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
		EstimatedCost:    u.EstimatedCost,
	}
}
