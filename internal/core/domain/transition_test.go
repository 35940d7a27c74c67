package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rutina-app/rutina-engine/internal/core/domain"
)

func TestApplyOutcome(t *testing.T) {
	now := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)

	t.Run("Success: completion extends the streak", func(t *testing.T) {
		habit := domain.Habit{ID: "h1", Streak: 3, BestStreak: 5, State: domain.StateActive}

		updated, err := domain.ApplyOutcome(habit, true, now)

		require.NoError(t, err)
		assert.Equal(t, 4, updated.Streak)
		assert.Equal(t, 5, updated.BestStreak)
		assert.Equal(t, domain.StateCompleted, updated.State)
		require.NotNil(t, updated.LastCompletedAt)
		assert.Equal(t, now, *updated.LastCompletedAt)
	})

	t.Run("Success: new best streak is recorded", func(t *testing.T) {
		habit := domain.Habit{ID: "h1", Streak: 5, BestStreak: 5}

		updated, err := domain.ApplyOutcome(habit, true, now)

		require.NoError(t, err)
		assert.Equal(t, 6, updated.Streak)
		assert.Equal(t, 6, updated.BestStreak)
	})

	t.Run("Success: failure resets the streak but never the best", func(t *testing.T) {
		habit := domain.Habit{ID: "h1", Streak: 7, BestStreak: 9, State: domain.StateActive}

		updated, err := domain.ApplyOutcome(habit, false, now)

		require.NoError(t, err)
		assert.Equal(t, 0, updated.Streak)
		assert.Equal(t, 9, updated.BestStreak)
		assert.Equal(t, domain.StateFailed, updated.State)
		assert.Nil(t, updated.LastCompletedAt)
	})

	t.Run("Success: input habit is never mutated", func(t *testing.T) {
		habit := domain.Habit{ID: "h1", Streak: 2, BestStreak: 2}

		_, err := domain.ApplyOutcome(habit, true, now)

		require.NoError(t, err)
		assert.Equal(t, 2, habit.Streak)
		assert.Equal(t, 2, habit.BestStreak)
	})

	t.Run("Fail: corrupted counters surface a consistency error", func(t *testing.T) {
		habit := domain.Habit{ID: "h1", Streak: 10, BestStreak: 4}

		updated, err := domain.ApplyOutcome(habit, true, now)

		var consistency *domain.ConsistencyError
		require.ErrorAs(t, err, &consistency)
		assert.Equal(t, "h1", consistency.HabitID)
		// The broken counters are returned untouched, never repaired.
		assert.Equal(t, 10, updated.Streak)
		assert.Equal(t, 4, updated.BestStreak)
	})

	t.Run("Edge Case: invariant holds across a long outcome sequence", func(t *testing.T) {
		habit := domain.Habit{ID: "h1"}
		outcomes := []bool{true, true, false, true, true, true, false, true}

		at := now
		for _, completed := range outcomes {
			var err error
			habit, err = domain.ApplyOutcome(habit, completed, at)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, habit.BestStreak, habit.Streak)
			at = at.AddDate(0, 0, 1)
		}

		assert.Equal(t, 1, habit.Streak)
		assert.Equal(t, 3, habit.BestStreak)
	})
}
