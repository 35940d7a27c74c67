package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rutina-app/rutina-engine/internal/adapters/cache"
	"github.com/rutina-app/rutina-engine/internal/adapters/repository"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestCachedHabitRepository_Integration(t *testing.T) {
	rdb, err := cache.NewRedisClient(
		envOr("REDIS_HOST", "localhost"),
		envOr("REDIS_PORT", "6379"),
		envOr("REDIS_PASSWORD", ""),
		1,
	)
	if err != nil {
		t.Skipf("Skipping cached repository test: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()
	require.NoError(t, rdb.FlushDB(ctx).Err())

	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	t.Run("Success: list is served from cache until a write invalidates it", func(t *testing.T) {
		store := repository.NewMemoryHabitRepository()
		cached := repository.NewCachedHabitRepository(store, rdb)

		habit := newHabit(t, "user-1", created)
		require.NoError(t, cached.Create(ctx, habit))

		first, err := cached.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, first, 1)

		// Writing behind the decorator's back leaves the cache stale.
		backdoor := newHabit(t, "user-1", created.AddDate(0, 0, 1))
		require.NoError(t, store.Create(ctx, backdoor))

		stale, err := cached.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, stale, 1)

		// A write through the decorator drops the cached list.
		habit.Title = "Renamed"
		require.NoError(t, cached.Update(ctx, habit))

		fresh, err := cached.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, fresh, 2)
	})

	t.Run("Success: delete invalidates the owner's list", func(t *testing.T) {
		require.NoError(t, rdb.FlushDB(ctx).Err())
		store := repository.NewMemoryHabitRepository()
		cached := repository.NewCachedHabitRepository(store, rdb)

		habit := newHabit(t, "user-2", created)
		require.NoError(t, cached.Create(ctx, habit))

		warm, err := cached.ListByUserID(ctx, "user-2")
		require.NoError(t, err)
		require.Len(t, warm, 1)

		require.NoError(t, cached.Delete(ctx, habit.ID))

		after, err := cached.ListByUserID(ctx, "user-2")
		require.NoError(t, err)
		assert.Empty(t, after)
	})
}
