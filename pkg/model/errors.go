package model

import "fmt"

// ErrorCode represents a structured API error code.
type ErrorCode string

const (
	ErrValidation   ErrorCode = "VALIDATION_ERROR"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrInvalidState ErrorCode = "INVALID_STATE"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
)

// APIError is a structured error returned by the schedq API.
type APIError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FieldError describes a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NewValidationError creates an APIError with validation details.
func NewValidationError(msg string, details ...FieldError) *APIError {
	return &APIError{Code: ErrValidation, Message: msg, Details: details}
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}

// TaskNotFoundError is returned when a task id is unknown to the registry.
type TaskNotFoundError struct {
	ID string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task '%s' not found", e.ID)
}

// InvalidPriorityError is returned when a priority falls outside the
// configured range. Rejected before any state mutation.
type InvalidPriorityError struct {
	Priority int
	Min      int
	Max      int
}

func (e *InvalidPriorityError) Error() string {
	return fmt.Sprintf("priority %d out of range [%d, %d]", e.Priority, e.Min, e.Max)
}

// InvalidBurstError is returned when a submitted burst time is not positive.
type InvalidBurstError struct {
	Burst int64
}

func (e *InvalidBurstError) Error() string {
	return fmt.Sprintf("burst time must be positive, got %d", e.Burst)
}

// InvalidStateError is returned when an operation is not legal for the
// task's current lifecycle state.
type InvalidStateError struct {
	ID    string
	State TaskState
	Op    string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s task '%s' in state %s", e.Op, e.ID, e.State)
}
