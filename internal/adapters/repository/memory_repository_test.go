package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rutina-app/rutina-engine/internal/adapters/repository"
	"github.com/rutina-app/rutina-engine/internal/core/domain"
)

func newHabit(t *testing.T, userID string, createdAt time.Time) *domain.Habit {
	t.Helper()
	habit, err := domain.NewHabit(userID, "Read", "", "", "", 0, []string{"monday"},
		domain.Goal{Kind: domain.GoalKindCount, Value: 10}, createdAt)
	require.NoError(t, err)
	return habit
}

func TestMemoryHabitRepository(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	t.Run("Success: create then read", func(t *testing.T) {
		repo := repository.NewMemoryHabitRepository()
		habit := newHabit(t, "user-1", created)

		require.NoError(t, repo.Create(ctx, habit))

		got, err := repo.GetByID(ctx, habit.ID)
		require.NoError(t, err)
		assert.Equal(t, habit.Title, got.Title)
	})

	t.Run("Success: reads return defensive copies", func(t *testing.T) {
		repo := repository.NewMemoryHabitRepository()
		habit := newHabit(t, "user-1", created)
		require.NoError(t, repo.Create(ctx, habit))

		got, err := repo.GetByID(ctx, habit.ID)
		require.NoError(t, err)
		got.Title = "mutated"
		got.ScheduledDays[0] = "sunday"

		fresh, err := repo.GetByID(ctx, habit.ID)
		require.NoError(t, err)
		assert.Equal(t, "Read", fresh.Title)
		assert.Equal(t, []string{"monday"}, fresh.ScheduledDays)
	})

	t.Run("Success: list is scoped per user, newest first", func(t *testing.T) {
		repo := repository.NewMemoryHabitRepository()
		older := newHabit(t, "user-1", created)
		newer := newHabit(t, "user-1", created.AddDate(0, 0, 5))
		foreign := newHabit(t, "user-2", created)
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))
		require.NoError(t, repo.Create(ctx, foreign))

		list, err := repo.ListByUserID(ctx, "user-1")

		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.ID, list[0].ID)
		assert.Equal(t, older.ID, list[1].ID)
	})

	t.Run("Fail: unknown ids", func(t *testing.T) {
		repo := repository.NewMemoryHabitRepository()
		habit := newHabit(t, "user-1", created)

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)

		assert.ErrorIs(t, repo.Update(ctx, habit), domain.ErrHabitNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrHabitNotFound)
	})
}

func TestMemoryProgressRepository(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 1, 8, 14, 0, 0, 0, time.UTC)

	record := func(t *testing.T, habitID string, at time.Time, completed bool) *domain.ProgressRecord {
		t.Helper()
		r, err := domain.NewProgressRecord(habitID, "user-1", completed, nil, "", at)
		require.NoError(t, err)
		return r
	}

	t.Run("Success: one record per habit per day", func(t *testing.T) {
		repo := repository.NewMemoryProgressRepository()

		require.NoError(t, repo.Create(ctx, record(t, "h1", day, true)))

		// Same day, different hour.
		err := repo.Create(ctx, record(t, "h1", day.Add(6*time.Hour), false))
		assert.ErrorIs(t, err, domain.ErrDuplicateRecord)

		// Another habit on the same day is fine.
		assert.NoError(t, repo.Create(ctx, record(t, "h2", day, true)))

		// Same habit on the next day is fine.
		assert.NoError(t, repo.Create(ctx, record(t, "h1", day.AddDate(0, 0, 1), true)))
	})

	t.Run("Success: lookup by habit and day", func(t *testing.T) {
		repo := repository.NewMemoryProgressRepository()
		require.NoError(t, repo.Create(ctx, record(t, "h1", day, true)))

		got, err := repo.GetByHabitAndDay(ctx, "h1", day.Add(9*time.Hour))
		require.NoError(t, err)
		assert.True(t, got.Completed)

		_, err = repo.GetByHabitAndDay(ctx, "h1", day.AddDate(0, 0, 1))
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("Success: list by habit is newest first and honors the limit", func(t *testing.T) {
		repo := repository.NewMemoryProgressRepository()
		for i := 0; i < 5; i++ {
			require.NoError(t, repo.Create(ctx, record(t, "h1", day.AddDate(0, 0, i), true)))
		}

		list, err := repo.ListByHabitID(ctx, "h1", 3)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, domain.CalendarDay(day.AddDate(0, 0, 4)), list[0].Day)

		all, err := repo.ListByHabitID(ctx, "h1", 0)
		require.NoError(t, err)
		assert.Len(t, all, 5)
	})

	t.Run("Success: list by user since cuts off older days", func(t *testing.T) {
		repo := repository.NewMemoryProgressRepository()
		require.NoError(t, repo.Create(ctx, record(t, "h1", day, true)))
		require.NoError(t, repo.Create(ctx, record(t, "h1", day.AddDate(0, 0, -10), true)))

		list, err := repo.ListByUserSince(ctx, "user-1", day.AddDate(0, 0, -5))

		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, domain.CalendarDay(day), list[0].Day)
	})

	t.Run("Edge Case: concurrent writers race for one day", func(t *testing.T) {
		repo := repository.NewMemoryProgressRepository()

		records := make([]*domain.ProgressRecord, 10)
		for i := range records {
			records[i] = record(t, "h1", day, true)
		}

		var wg sync.WaitGroup
		errs := make(chan error, len(records))
		for _, r := range records {
			wg.Add(1)
			go func(r *domain.ProgressRecord) {
				defer wg.Done()
				errs <- repo.Create(ctx, r)
			}(r)
		}
		wg.Wait()
		close(errs)

		succeeded := 0
		for err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, domain.ErrDuplicateRecord)
			}
		}
		assert.Equal(t, 1, succeeded)
	})
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	t.Run("Success: create then read by id and email", func(t *testing.T) {
		repo := repository.NewMemoryUserRepository()
		user, err := domain.NewUser("u1", "Ada", "ada@example.com", now)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, user))

		byID, err := repo.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", byID.Email)

		byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", byEmail.ID)
	})

	t.Run("Fail: duplicate email", func(t *testing.T) {
		repo := repository.NewMemoryUserRepository()
		first, err := domain.NewUser("u1", "Ada", "ada@example.com", now)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, first))

		second, err := domain.NewUser("u2", "Imposter", "ada@example.com", now)
		require.NoError(t, err)

		assert.ErrorIs(t, repo.Create(ctx, second), domain.ErrEmailAlreadyExists)
	})

	t.Run("Fail: unknown user", func(t *testing.T) {
		repo := repository.NewMemoryUserRepository()

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		_, err = repo.GetByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
