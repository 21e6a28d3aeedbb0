package ports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStoreError tests the functionality of the StoreError error type.
// It verifies that the error message is formatted correctly and that the
// wrapped sentinel stays matchable.
func TestStoreError(t *testing.T) {
	t.Run("message carries operation and key", func(t *testing.T) {
		err := NewStoreError("get_result", "year=2025", ErrNotFound)

		assert.Equal(t, "store error: operation=get_result, key=year=2025, err=not found", err.Error())
		assert.Equal(t, "get_result", err.Operation)
		assert.Equal(t, "year=2025", err.Key)
	})

	t.Run("wrapped sentinel matches", func(t *testing.T) {
		err := NewStoreError("replace_result", "year=2025", ErrUnavailable)

		assert.True(t, errors.Is(err, ErrUnavailable))
		assert.False(t, errors.Is(err, ErrNotFound))
	})

	t.Run("errors.As recovers the struct", func(t *testing.T) {
		wrapped := NewStoreError("years", "", ErrConflict)

		var storeErr *StoreError
		assert.True(t, errors.As(error(wrapped), &storeErr))
		assert.Equal(t, "years", storeErr.Operation)
	})
}
