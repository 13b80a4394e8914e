package entities

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// ErrValidation matches every ValidationError via errors.Is
	ErrValidation = errors.New("validation failed")

	ErrAnalysisNotFound   = errors.New("analysis not found")
	ErrTranscriptNotFound = errors.New("transcript not found")
)

// ValidationError là lỗi input của agent, trả về trước khi chạy bất kỳ bước nào
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
