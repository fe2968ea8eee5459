package domain

import (
	"errors"
	"fmt"
)

// Predefined domain errors
var (
	// ErrTransport the agent backend could not be reached or answered non-2xx
	ErrTransport = errors.New("transport error")
	// ErrParse a stream frame could not be decoded
	ErrParse = errors.New("parse error")
	// ErrApproval the approval request was refused by the backend
	ErrApproval = errors.New("approval error")
	// ErrInputLocked input is gated by a pending review
	ErrInputLocked = errors.New("input locked by pending review")
	// ErrNotFound resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput invalid input
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict resource conflict
	ErrConflict = errors.New("resource conflict")
	// ErrUnauthorized unauthorized
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden forbidden
	ErrForbidden = errors.New("forbidden")
	// ErrInternal internal error
	ErrInternal = errors.New("internal error")
)

// TransportFailureText replaces the in-progress assistant content when the stream fails.
const TransportFailureText = "Error: Could not reach the AI agent. Please check your connection."

// DomainError carries a stable code, a user-facing message and the wrapped cause.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface (used for logs and internal propagation)
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UserMessage returns the message safe to show to the user
func (e *DomainError) UserMessage() string {
	return e.Message
}

// Unwrap returns the wrapped error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a network failure or a non-2xx status.
func NewTransportError(err error) error {
	return &DomainError{
		Code:    "TRANSPORT_ERROR",
		Message: TransportFailureText,
		Err:     fmt.Errorf("%w: %v", ErrTransport, err),
	}
}

// NewParseError reports a stream frame that is not valid JSON.
func NewParseError(frame string, err error) error {
	return &DomainError{
		Code:    "PARSE_ERROR",
		Message: fmt.Sprintf("malformed stream frame: %q", truncate(frame, 80)),
		Err:     fmt.Errorf("%w: %v", ErrParse, err),
	}
}

// NewApprovalError reports a refused approval. detail is the backend's explanation, if any.
func NewApprovalError(status int, detail string) error {
	if detail == "" {
		detail = "Approval failed"
	}
	return &DomainError{
		Code:    "APPROVAL_ERROR",
		Message: detail,
		Err:     fmt.Errorf("%w: HTTP %d", ErrApproval, status),
	}
}

// NewNotFoundError creates a resource not found error
func NewNotFoundError(resourceType, name string) error {
	return &DomainError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s '%s' not found", resourceType, name),
		Err:     ErrNotFound,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string) error {
	return &DomainError{
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// NewForbiddenError creates a governance or scope violation error
func NewForbiddenError(message string) error {
	return &DomainError{
		Code:    "FORBIDDEN",
		Message: message,
		Err:     ErrForbidden,
	}
}

// NewConflictError creates a resource conflict error
func NewConflictError(message string) error {
	return &DomainError{
		Code:    "CONFLICT",
		Message: message,
		Err:     ErrConflict,
	}
}

// NewInternalError creates an internal error without exposing details
func NewInternalError(err error) error {
	return &DomainError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Err:     fmt.Errorf("%w: %v", ErrInternal, err),
	}
}

// UserMessage returns the user-facing text of err, falling back to err.Error().
func UserMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.UserMessage()
	}
	return err.Error()
}

// IsTransport reports whether err is a transport failure
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsParse reports whether err is a frame parse failure
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsApproval reports whether err is a refused approval
func IsApproval(err error) bool {
	return errors.Is(err, ErrApproval)
}

// IsNotFound reports whether err is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput reports whether err is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsForbidden reports whether err is a forbidden error
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsConflict reports whether err is a conflict error
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsUnauthorized reports whether err is an unauthorized error
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
