package entity

// DecisionStatus is the outcome reported by the approval endpoint
type DecisionStatus string

const (
	DecisionApproved         DecisionStatus = "approved"
	DecisionRejected         DecisionStatus = "rejected"
	DecisionAlreadyProcessed DecisionStatus = "already_processed"
)

// PendingReview is the notification raised when a final event asks for supervisor review.
type PendingReview struct {
	ThreadID  string
	MessageID string
	Summary   string
}

// ApprovalRequest is a supervisor decision on a pending thread
type ApprovalRequest struct {
	ThreadID       string
	Approve        bool
	SupervisorID   string
	UserID         string
	EditedResponse string
}

// ApprovalDecision is the backend's answer to an ApprovalRequest
type ApprovalDecision struct {
	Status           DecisionStatus
	ThreadID         string
	Auditor          string
	DecisionAt       string
	Message          string
	Response         string
	NewAgentResponse string
}
