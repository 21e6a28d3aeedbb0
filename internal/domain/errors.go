package domain

import (
	"errors"
	"fmt"
)

// Common domain errors that can occur during an allocation run.
var (
	// ErrUnknownReference indicates a vote row points at a party,
	// constituency, state, or person missing from the reference data.
	ErrUnknownReference = errors.New("unknown reference")

	// ErrNegativeVotes indicates a vote total below zero.
	ErrNegativeVotes = errors.New("negative vote count")

	// ErrDuplicateRow indicates an input row violating a uniqueness
	// invariant, such as two candidacies for one person in one year.
	ErrDuplicateRow = errors.New("duplicate input row")

	// ErrSeatBudgetExceeded indicates that automatically seated direct
	// winners alone exceed the total seat budget.
	ErrSeatBudgetExceeded = errors.New("seat budget exceeded")

	// ErrDivisorsExhausted indicates the divisor sequence bound was too
	// small to cover the seat budget, a configuration error.
	ErrDivisorsExhausted = errors.New("divisor sequence exhausted")

	// ErrInvalidConfiguration indicates that configuration is invalid or
	// incomplete.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInconsistentResult indicates an assembled result violating one
	// of the roster consistency contracts.
	ErrInconsistentResult = errors.New("inconsistent result")
)

// StageError represents a failure inside one pipeline stage. It carries
// the stage name and the entity that triggered the failure so callers
// can report exactly where a run aborted.
type StageError struct {
	// Stage names the pipeline stage that failed.
	Stage string

	// Entity describes the offending entity, e.g. "candidacy person=12".
	Entity string

	// Err is the underlying error that caused the stage to fail.
	Err error
}

// Error implements the error interface for StageError.
func (e *StageError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("stage %s: %s: %v", e.Stage, e.Entity, e.Err)
}

// Unwrap returns the underlying error, supporting errors.Is/As matching.
func (e *StageError) Unwrap() error { return e.Err }

// NewStageError creates a new StageError with the given details.
func NewStageError(stage, entity string, err error) *StageError {
	return &StageError{Stage: stage, Entity: entity, Err: err}
}

// ValidationError represents a failed validation of input or
// configuration. It can accumulate multiple failures before being
// returned.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{Entity: entity, Errors: make([]string, 0)}
}
