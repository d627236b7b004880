package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_MatchesKind(t *testing.T) {
	err := NewError("enrollment", "Review", ErrInvalidTransition, "enrollment %d is %s", 7, "ACTIVE")

	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "enrollment.Review: enrollment 7 is ACTIVE", err.Error())

	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInvalidTransition))
}

func TestRetryOnConflict(t *testing.T) {
	t.Run("retries once after a lost race", func(t *testing.T) {
		calls := 0
		err := RetryOnConflict(func() error {
			calls++
			if calls == 1 {
				return NewError("progress", "Mark", ErrConcurrentModification, "lost race")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("gives up after the second conflict", func(t *testing.T) {
		calls := 0
		err := RetryOnConflict(func() error {
			calls++
			return ErrConcurrentModification
		})
		assert.ErrorIs(t, err, ErrConcurrentModification)
		assert.Equal(t, 2, calls)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		calls := 0
		err := RetryOnConflict(func() error {
			calls++
			return ErrNotUnlocked
		})
		assert.ErrorIs(t, err, ErrNotUnlocked)
		assert.Equal(t, 1, calls)
	})
}
