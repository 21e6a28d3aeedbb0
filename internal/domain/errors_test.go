package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStageError tests the functionality of the StageError error type.
// It covers message formatting with and without an entity and the
// errors.Is/As matching through Unwrap.
func TestStageError(t *testing.T) {
	t.Run("message with entity", func(t *testing.T) {
		err := NewStageError("vote_aggregation", "candidacy person=12", ErrUnknownReference)

		assert.Equal(t, "stage vote_aggregation: candidacy person=12: unknown reference", err.Error())
		assert.Equal(t, "vote_aggregation", err.Stage)
		assert.Equal(t, "candidacy person=12", err.Entity)
	})

	t.Run("message without entity", func(t *testing.T) {
		err := NewStageError("federal_apportionment", "", ErrDivisorsExhausted)

		assert.Equal(t, "stage federal_apportionment: divisor sequence exhausted", err.Error())
	})

	t.Run("sentinel matching through unwrap", func(t *testing.T) {
		err := NewStageError("roster_assembly", "person=7", ErrInconsistentResult)

		assert.True(t, errors.Is(err, ErrInconsistentResult))
		assert.False(t, errors.Is(err, ErrNegativeVotes))

		var stageErr *StageError
		assert.True(t, errors.As(error(err), &stageErr))
		assert.Equal(t, "roster_assembly", stageErr.Stage)
	})
}

// TestValidationError verifies accumulation and formatting of validation
// failures.
func TestValidationError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := NewValidationError("config")
		err.AddError("total_seats must be positive")

		assert.True(t, err.HasErrors())
		assert.Equal(t, "validation error for config: total_seats must be positive", err.Error())
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := NewValidationError("snapshot")
		err.AddError("negative votes")
		err.AddError("duplicate row")

		assert.True(t, err.HasErrors())
		assert.Contains(t, err.Error(), "validation errors for snapshot")
	})

	t.Run("no errors", func(t *testing.T) {
		assert.False(t, NewValidationError("empty").HasErrors())
	})
}
