package types

import "github.com/fina-agent/fina-console/internal/domain/entity"

// HistoryEntry is one message of a thread's audit history
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ThreadStatusResponse is the body of GET /chat/{thread_id}
type ThreadStatusResponse struct {
	ThreadID      string         `json:"thread_id"`
	Status        string         `json:"status"` // completed, pending_review
	FinalDecision string         `json:"final_decision"`
	HistoryCount  int            `json:"history_count"`
	FullHistory   []HistoryEntry `json:"full_history"`
	Usage         *Usage         `json:"usage,omitempty"`
}

// IngestResponse is the body of POST /ingest
type IngestResponse struct {
	Status          string `json:"status"`
	Filename        string `json:"filename"`
	ChunksProcessed int    `json:"chunks_processed"`
	StorageMode     string `json:"storage_mode"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status         string          `json:"status"`
	NodeA          string          `json:"node_a"`
	NodeBConnected bool            `json:"node_b_connected"`
	APIKeysSet     map[string]bool `json:"api_keys_set"`
	VectorDB       string          `json:"vector_db"`
}

// StatusResponse is a plain acknowledgement
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ToEntity converts the wire status
func (r ThreadStatusResponse) ToEntity() entity.ThreadStatus {
	ts := entity.ThreadStatus{
		ThreadID:      r.ThreadID,
		Status:        r.Status,
		FinalDecision: r.FinalDecision,
		HistoryCount:  r.HistoryCount,
	}
	for _, h := range r.FullHistory {
		ts.History = append(ts.History, entity.HistoryEntry{Role: h.Role, Content: h.Content})
	}
	if r.Usage != nil {
		ts.Usage = &entity.Usage{
			PromptTokens:     r.Usage.PromptTokens,
			CompletionTokens: r.Usage.CompletionTokens,
			TotalTokens:      r.Usage.TotalTokens,
			EstimatedCost:    r.Usage.EstimatedCost,
		}
	}
	return ts
}

// ToEntity converts the wire result
func (r IngestResponse) ToEntity() entity.IngestResult {
	return entity.IngestResult{
		Status:          r.Status,
		Filename:        r.Filename,
		ChunksProcessed: r.ChunksProcessed,
		StorageMode:     r.StorageMode,
	}
}

// ToEntity converts the wire health
func (r HealthResponse) ToEntity() entity.Health {
	return entity.Health{
		Status:         r.Status,
		NodeA:          r.NodeA,
		NodeBConnected: r.NodeBConnected,
		APIKeysSet:     r.APIKeysSet,
		VectorDB:       r.VectorDB,
	}
}

// FromThreadStatus converts the domain status back to its wire shape for -o yaml|json
func FromThreadStatus(ts entity.ThreadStatus) ThreadStatusResponse {
	r := ThreadStatusResponse{
		ThreadID:      ts.ThreadID,
		Status:        ts.Status,
		FinalDecision: ts.FinalDecision,
		HistoryCount:  ts.HistoryCount,
		FullHistory:   make([]HistoryEntry, 0, len(ts.History)),
	}
	for _, h := range ts.History {
		r.FullHistory = append(r.FullHistory, HistoryEntry{Role: h.Role, Content: h.Content})
	}
	if ts.Usage != nil {
		r.Usage = &Usage{
			PromptTokens:     ts.Usage.PromptTokens,
			CompletionTokens: ts.Usage.CompletionTokens,
			TotalTokens:      ts.Usage.TotalTokens,
			EstimatedCost:    ts.Usage.EstimatedCost,
		}
	}
	return r
}
