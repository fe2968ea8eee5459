package dto

import "github.com/fina-agent/fina-console/internal/domain/entity"

// ApproveRequest is the body of POST /approve
type ApproveRequest struct {
	ThreadID       string `json:"thread_id"`
	Approve        bool   `json:"approve"`
	SupervisorID   string `json:"supervisor_id"`
	UserID         string `json:"user_id"`
	EditedResponse string `json:"edited_response,omitempty"`
}

// ToEntity converts the request; userID is used when the body omits user_id
func (r ApproveRequest) ToEntity(userID string) entity.ApprovalRequest {
	if r.UserID != "" {
		userID = r.UserID
	}
	return entity.ApprovalRequest{
		ThreadID:       r.ThreadID,
		Approve:        r.Approve,
		SupervisorID:   r.SupervisorID,
		UserID:         userID,
		EditedResponse: r.EditedResponse,
	}
}

// ApprovalResponse is the decision returned by POST /approve
type ApprovalResponse struct {
	Status           string `json:"status"`
	ThreadID         string `json:"thread_id"`
	Auditor          string `json:"auditor,omitempty"`
	DecisionAt       string `json:"decision_at,omitempty"`
	Message          string `json:"message,omitempty"`
	Response         string `json:"response,omitempty"`
	NewAgentResponse string `json:"new_agent_response,omitempty"`
}

// ToApprovalResponse converts a domain decision
func ToApprovalResponse(d *entity.ApprovalDecision) ApprovalResponse {
	return ApprovalResponse{
		Status:           string(d.Status),
		ThreadID:         d.ThreadID,
		Auditor:          d.Auditor,
		DecisionAt:       d.DecisionAt,
		Message:          d.Message,
		Response:         d.Response,
		NewAgentResponse: d.NewAgentResponse,
	}
}
