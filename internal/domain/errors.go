package domain

import "fmt"

// Stage identifies which external collaborator a pipeline failure came from.
type Stage string

const (
	StageReasoning Stage = "reasoning"
	StageResearch  Stage = "research"
)

// ValidationError reports malformed or out-of-range profile input.
// It is user-fixable and surfaces as a client error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid profile: %s", e.Reason)
	}
	return fmt.Sprintf("invalid profile field %q: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// UpstreamError reports a failure of an external collaborator (timeout, quota,
// malformed response). It carries the stage that failed so callers can report it.
type UpstreamError struct {
	Stage Stage
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps a collaborator failure with its stage.
func NewUpstreamError(stage Stage, err error) *UpstreamError {
	return &UpstreamError{Stage: stage, Err: err}
}
