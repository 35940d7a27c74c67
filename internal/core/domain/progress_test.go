package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rutina-app/rutina-engine/internal/core/domain"
)

func recordOn(habitID string, day time.Time, completed bool) *domain.ProgressRecord {
	return &domain.ProgressRecord{
		ID:        "r-" + domain.DayKey(day),
		HabitID:   habitID,
		UserID:    "user-1",
		Day:       domain.CalendarDay(day),
		Completed: completed,
		CreatedAt: day,
	}
}

func TestComputeProgress(t *testing.T) {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	t.Run("Success: counts completions against the goal", func(t *testing.T) {
		habit := &domain.Habit{
			ID:         "h1",
			CreatedAt:  created,
			Goal:       domain.Goal{Kind: domain.GoalKindCount, Value: 10},
			Streak:     2,
			BestStreak: 3,
		}
		records := []*domain.ProgressRecord{
			recordOn("h1", created, true),
			recordOn("h1", created.AddDate(0, 0, 1), true),
			recordOn("h1", created.AddDate(0, 0, 2), false),
			recordOn("h1", created.AddDate(0, 0, 3), true),
			recordOn("h1", created.AddDate(0, 0, 4), true),
		}

		now := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
		stats := domain.ComputeProgress(habit, records, now)

		assert.Equal(t, 5, stats.TotalDays)
		assert.Equal(t, 4, stats.CompletedCount)
		assert.Equal(t, 40, stats.Percentage)
		assert.Equal(t, 2, stats.Streak)
		assert.Equal(t, 3, stats.BestStreak)
	})

	t.Run("Edge Case: zero goal pins the percentage to zero", func(t *testing.T) {
		habit := &domain.Habit{ID: "h1", CreatedAt: created}
		records := []*domain.ProgressRecord{recordOn("h1", created, true)}

		stats := domain.ComputeProgress(habit, records, created.AddDate(0, 0, 3))

		assert.Equal(t, 1, stats.CompletedCount)
		assert.Equal(t, 0, stats.Percentage)
	})

	t.Run("Edge Case: a habit created today spans one day", func(t *testing.T) {
		habit := &domain.Habit{ID: "h1", CreatedAt: created, Goal: domain.Goal{Kind: domain.GoalKindCount, Value: 1}}

		stats := domain.ComputeProgress(habit, nil, created.Add(2*time.Hour))

		assert.Equal(t, 1, stats.TotalDays)
		assert.Equal(t, 0, stats.CompletedCount)
	})
}

func TestDailyCompletionCounts(t *testing.T) {
	now := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)

	t.Run("Success: exactly one zero-filled bucket per day, oldest first", func(t *testing.T) {
		records := []*domain.ProgressRecord{
			recordOn("h1", now, true),
			recordOn("h2", now, true),
			recordOn("h1", now.AddDate(0, 0, -2), true),
			recordOn("h1", now.AddDate(0, 0, -2), false),
		}

		counts := domain.DailyCompletionCounts(records, 7, now)

		require.Len(t, counts, 7)
		assert.Equal(t, "2024-03-04", counts[0].Day)
		assert.Equal(t, "2024-03-10", counts[6].Day)

		total := 0
		for _, c := range counts {
			total += c.Completed
		}
		assert.Equal(t, 3, total)
		assert.Equal(t, 1, counts[4].Completed)
		assert.Equal(t, 0, counts[5].Completed)
		assert.Equal(t, 2, counts[6].Completed)
	})

	t.Run("Edge Case: records outside the window are dropped", func(t *testing.T) {
		records := []*domain.ProgressRecord{
			recordOn("h1", now.AddDate(0, 0, -10), true),
		}

		counts := domain.DailyCompletionCounts(records, 7, now)

		require.Len(t, counts, 7)
		for _, c := range counts {
			assert.Equal(t, 0, c.Completed)
		}
	})

	t.Run("Edge Case: non-positive day count yields an empty series", func(t *testing.T) {
		assert.Empty(t, domain.DailyCompletionCounts(nil, 0, now))
	})
}

func TestBuildUserSummary(t *testing.T) {
	now := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)

	t.Run("Success: aggregates habits and recent records", func(t *testing.T) {
		habits := []*domain.Habit{
			{ID: "h1", State: domain.StateCompleted, BestStreak: 8},
			{ID: "h2", State: domain.StateActive, BestStreak: 12},
			{ID: "h3", State: domain.StateFailed, BestStreak: 2},
		}
		records := []*domain.ProgressRecord{
			recordOn("h1", now, true),
			recordOn("h2", now, true),
			recordOn("h1", now.AddDate(0, 0, -1), true),
			recordOn("h3", now.AddDate(0, 0, -1), false),
			// Outside the 30-day window, must not count.
			recordOn("h1", now.AddDate(0, 0, -45), true),
		}

		summary := domain.BuildUserSummary(habits, records, now)

		assert.Equal(t, 3, summary.TotalHabits)
		assert.Equal(t, 1, summary.HabitsCompleted)
		assert.Equal(t, 2, summary.MaxDailyCompletions)
		assert.Equal(t, 12, summary.MaxStreak)
		assert.Equal(t, 2, summary.DaysWithProgress)
	})

	t.Run("Edge Case: no habits means an all-zero summary", func(t *testing.T) {
		summary := domain.BuildUserSummary(nil, nil, now)

		assert.Equal(t, domain.UserSummary{}, summary)
	})
}
