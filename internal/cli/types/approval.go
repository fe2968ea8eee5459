package types

import "github.com/fina-agent/fina-console/internal/domain/entity"

// ApproveRequest is the body of POST /approve
type ApproveRequest struct {
	ThreadID       string `json:"thread_id"`
	Approve        bool   `json:"approve"`
	SupervisorID   string `json:"supervisor_id"`
	UserID         string `json:"user_id"`
	EditedResponse string `json:"edited_response,omitempty"`
}

// ApprovalResponse is the backend's decision
type ApprovalResponse struct {
	Status           string `json:"status"` // approved, rejected, already_processed
	ThreadID         string `json:"thread_id"`
	Auditor          string `json:"auditor,omitempty"`
	DecisionAt       string `json:"decision_at,omitempty"`
	Message          string `json:"message,omitempty"`
	Response         string `json:"response,omitempty"`
	NewAgentResponse string `json:"new_agent_response,omitempty"`
}

// ErrorResponse is the error body returned on non-2xx
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// NewApproveRequest converts a domain request
func NewApproveRequest(req entity.ApprovalRequest) ApproveRequest {
	return ApproveRequest{
		ThreadID:       req.ThreadID,
		Approve:        req.Approve,
		SupervisorID:   req.SupervisorID,
		UserID:         req.UserID,
		EditedResponse: req.EditedResponse,
	}
}

// ToEntity converts the wire decision
func (r ApprovalResponse) ToEntity() entity.ApprovalDecision {
	return entity.ApprovalDecision{
		Status:           entity.DecisionStatus(r.Status),
		ThreadID:         r.ThreadID,
		Auditor:          r.Auditor,
		DecisionAt:       r.DecisionAt,
		Message:          r.Message,
		Response:         r.Response,
		NewAgentResponse: r.NewAgentResponse,
	}
}
