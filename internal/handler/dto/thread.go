package dto

import "github.com/fina-agent/fina-console/internal/domain/entity"

// HistoryEntry one audit history message
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ThreadStatusResponse is the body of GET /chat/:thread_id
type ThreadStatusResponse struct {
	ThreadID      string         `json:"thread_id"`
	Status        string         `json:"status"`
	FinalDecision string         `json:"final_decision"`
	HistoryCount  int            `json:"history_count"`
	FullHistory   []HistoryEntry `json:"full_history"`
	Usage         *Usage         `json:"usage,omitempty"`
}

// ToThreadStatusResponse converts the audit view
func ToThreadStatusResponse(ts *entity.ThreadStatus) ThreadStatusResponse {
	history := make([]HistoryEntry, 0, len(ts.History))
	for _, h := range ts.History {
		history = append(history, HistoryEntry{Role: h.Role, Content: h.Content})
	}
	return ThreadStatusResponse{
		ThreadID:      ts.ThreadID,
		Status:        ts.Status,
		FinalDecision: ts.FinalDecision,
		HistoryCount:  ts.HistoryCount,
		FullHistory:   history,
		Usage:         toUsage(ts.Usage),
	}
}

// IngestResponse is the body of POST /ingest
type IngestResponse struct {
	Status          string `json:"status"`
	Filename        string `json:"filename"`
	ChunksProcessed int    `json:"chunks_processed"`
	StorageMode     string `json:"storage_mode"`
}

// ToIngestResponse converts an ingest result
func ToIngestResponse(r *entity.IngestResult) IngestResponse {
	return IngestResponse{
		Status:          r.Status,
		Filename:        r.Filename,
		ChunksProcessed: r.ChunksProcessed,
		StorageMode:     r.StorageMode,
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status         string          `json:"status"`
	NodeA          string          `json:"node_a"`
	NodeBConnected bool            `json:"node_b_connected"`
	APIKeysSet     map[string]bool `json:"api_keys_set"`
	VectorDB       string          `json:"vector_db"`
}

// ToHealthResponse converts the health summary
func ToHealthResponse(h *entity.Health) HealthResponse {
	return HealthResponse{
		Status:         h.Status,
		NodeA:          h.NodeA,
		NodeBConnected: h.NodeBConnected,
		APIKeysSet:     h.APIKeysSet,
		VectorDB:       h.VectorDB,
	}
}

// StatusResponse plain acknowledgement
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
