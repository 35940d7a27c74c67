package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rutina-app/rutina-engine/internal/core/domain"
)

func (e *testEnv) seedRecord(t *testing.T, habit *domain.Habit, day time.Time, completed bool) {
	t.Helper()
	record, err := domain.NewProgressRecord(habit.ID, habit.UserID, completed, nil, "", day)
	require.NoError(t, err)
	require.NoError(t, e.records.Create(context.Background(), record))
}

func TestStatsHandler_HabitReport(t *testing.T) {
	t.Run("Success: 200 OK with derived stats", func(t *testing.T) {
		env := setupEnv(t)
		habit := env.seedHabit(t, []string{"monday"}, "", 0)
		env.seedRecord(t, habit, testClock.AddDate(0, 0, -2), true)
		env.seedRecord(t, habit, testClock.AddDate(0, 0, -1), false)
		env.seedRecord(t, habit, testClock, true)

		w := env.do(http.MethodGet, "/progress/habit/"+habit.ID, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var report domain.HabitReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, habit.ID, report.Habit.ID)
		assert.Len(t, report.Records, 3)
		assert.Equal(t, 2, report.Stats.CompletedCount)
		assert.Equal(t, 20, report.Stats.Percentage)
	})

	t.Run("Fail: 404 Not Found", func(t *testing.T) {
		env := setupEnv(t)

		w := env.do(http.MethodGet, "/progress/habit/missing", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStatsHandler_UserOverview(t *testing.T) {
	t.Run("Success: 200 OK with the default week-wide chart", func(t *testing.T) {
		env := setupEnv(t)
		habit := env.seedHabit(t, []string{"monday"}, "", 0)
		env.seedRecord(t, habit, testClock, true)

		w := env.do(http.MethodGet, "/progress/overview", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var overview domain.UserOverview
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
		assert.Len(t, overview.Habits, 1)
		require.Len(t, overview.Chart, 7)
		assert.Equal(t, domain.DayKey(testClock), overview.Chart[6].Day)
		assert.Equal(t, 1, overview.Chart[6].Completed)
	})

	t.Run("Success: 200 OK with a custom window", func(t *testing.T) {
		env := setupEnv(t)
		env.seedHabit(t, []string{"monday"}, "", 0)

		w := env.do(http.MethodGet, "/progress/overview?days=30", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var overview domain.UserOverview
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
		assert.Len(t, overview.Chart, 30)
	})

	t.Run("Fail: 400 Bad Request on a malformed window", func(t *testing.T) {
		env := setupEnv(t)

		for _, query := range []string{"days=abc", "days=0", "days=-3", "days=1000"} {
			w := env.do(http.MethodGet, "/progress/overview?"+query, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, query)
		}
	})
}

func TestStatsHandler_Summary(t *testing.T) {
	t.Run("Success: 200 OK", func(t *testing.T) {
		env := setupEnv(t)
		habit := env.seedHabit(t, []string{"monday"}, "", 0)
		env.seedRecord(t, habit, testClock, true)
		env.seedRecord(t, habit, testClock.AddDate(0, 0, -1), true)

		w := env.do(http.MethodGet, "/progress/summary", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var summary domain.UserSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, 1, summary.TotalHabits)
		assert.Equal(t, 2, summary.DaysWithProgress)
		assert.Equal(t, 1, summary.MaxDailyCompletions)
	})

	t.Run("Success: 200 OK with an empty account", func(t *testing.T) {
		env := setupEnv(t)

		w := env.do(http.MethodGet, "/progress/summary", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_habits":0`)
	})
}
