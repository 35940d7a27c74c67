package domain

import (
	"fmt"
	"time"
)

// ConsistencyError signals a broken streak invariant (best streak below the
// current streak). It points at a bug upstream and is always surfaced, never
// silently repaired.
type ConsistencyError struct {
	HabitID string
	Detail  string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("habit %s: consistency violation: %s", e.HabitID, e.Detail)
}

// ApplyOutcome is the single state transition for a recorded daily outcome.
// It takes the habit by value and returns the updated copy, so callers never
// observe a half-applied mutation. State, streak, best streak and the last
// completion timestamp move together here and nowhere else.
func ApplyOutcome(h Habit, completed bool, now time.Time) (Habit, error) {
	if h.BestStreak < h.Streak {
		return h, &ConsistencyError{
			HabitID: h.ID,
			Detail:  fmt.Sprintf("best streak %d below current streak %d", h.BestStreak, h.Streak),
		}
	}

	instant := now.UTC()

	if completed {
		h.Streak++
		if h.Streak > h.BestStreak {
			h.BestStreak = h.Streak
		}
		h.State = StateCompleted
		h.LastCompletedAt = &instant
	} else {
		h.Streak = 0
		h.State = StateFailed
	}

	h.UpdatedAt = instant
	return h, nil
}
