package ports

import (
	"errors"
	"fmt"
)

// Common infrastructure errors that can occur during store interactions.
var (
	// ErrNotFound indicates that no stored result or row exists for the
	// requested key.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable indicates that the backing store is unreachable.
	ErrUnavailable = errors.New("store unavailable")

	// ErrConflict indicates a concurrent writer replaced the same
	// year's result; the caller may retry wholesale.
	ErrConflict = errors.New("write conflict")
)

// StoreError represents an error from a store operation. It includes the
// operation name and the key involved so failures can be traced to a
// specific read or write.
type StoreError struct {
	// Operation is the name of the store operation that failed.
	Operation string

	// Key describes the affected entity, e.g. "year=2025".
	Key string

	// Err is the underlying error that caused the operation to fail.
	Err error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: operation=%s, key=%s, err=%v", e.Operation, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError creates a new StoreError with the given details.
func NewStoreError(operation, key string, err error) *StoreError {
	return &StoreError{Operation: operation, Key: key, Err: err}
}
