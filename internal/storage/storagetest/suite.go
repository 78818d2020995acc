// Package storagetest holds the behavior every storage.Provider must share.
package storagetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/levelup/internal/models"
	"github.com/julianstephens/levelup/internal/storage"
)

// Factory returns a fresh, unopened provider.
type Factory func(t *testing.T) storage.Provider

// RunProviderTests runs the shared contract against providers built by newStore.
func RunProviderTests(t *testing.T, newStore Factory) {
	t.Helper()

	open := func(t *testing.T) storage.Provider {
		t.Helper()
		s := newStore(t)
		require.NoError(t, s.Open(context.Background()))
		t.Cleanup(func() { _ = s.Close() })
		return s
	}

	base := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("OperationsBeforeOpenAreUnavailable", func(t *testing.T) {
		s := newStore(t)
		_, err := s.ListHabits(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrUnavailable)
	})

	t.Run("OpenIsIdempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		t.Cleanup(func() { _ = s.Close() })

		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = s.Open(ctx)
			}(i)
		}
		wg.Wait()
		for _, err := range errs {
			assert.NoError(t, err)
		}
		require.NoError(t, s.Open(ctx))

		habits, err := s.ListHabits(ctx)
		require.NoError(t, err)
		assert.Empty(t, habits)
	})

	t.Run("DefaultSettings", func(t *testing.T) {
		s := open(t)
		settings, err := s.GetSettings(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.DefaultSettings(), settings)
	})

	t.Run("SaveSettings", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		want := models.Settings{Timezone: "America/New_York", CascadeDelete: false}
		require.NoError(t, s.SaveSettings(ctx, want))

		got, err := s.GetSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("HabitRoundTrip", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		h := models.Habit{ID: "h1", Name: "Read", CreatedAt: base}
		require.NoError(t, s.PutHabit(ctx, h))

		got, err := s.GetHabit(ctx, "h1")
		require.NoError(t, err)
		assert.Equal(t, h.ID, got.ID)
		assert.Equal(t, h.Name, got.Name)
		assert.True(t, h.CreatedAt.Equal(got.CreatedAt))

		h.Name = "Read 20 pages"
		require.NoError(t, s.PutHabit(ctx, h))
		got, err = s.GetHabit(ctx, "h1")
		require.NoError(t, err)
		assert.Equal(t, "Read 20 pages", got.Name)

		habits, err := s.ListHabits(ctx)
		require.NoError(t, err)
		assert.Len(t, habits, 1)
	})

	t.Run("GetMissingHabit", func(t *testing.T) {
		s := open(t)
		_, err := s.GetHabit(context.Background(), "nope")
		require.Error(t, err)
		assert.True(t, storage.IsNotFound(err))
		assert.Equal(t, storage.KindNotFound, storage.KindOf(err))
	})

	t.Run("ListHabitsByCreation", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.PutHabit(ctx, models.Habit{ID: "c", Name: "Third", CreatedAt: base.Add(2 * time.Hour)}))
		require.NoError(t, s.PutHabit(ctx, models.Habit{ID: "a", Name: "First", CreatedAt: base}))
		require.NoError(t, s.PutHabit(ctx, models.Habit{ID: "b", Name: "Second", CreatedAt: base.Add(90 * time.Millisecond)}))

		habits, err := s.ListHabits(ctx)
		require.NoError(t, err)
		require.Len(t, habits, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{habits[0].ID, habits[1].ID, habits[2].ID})
	})

	t.Run("DeleteAbsentIsNoop", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		assert.NoError(t, s.DeleteHabit(ctx, "missing"))
		assert.NoError(t, s.DeleteLog(ctx, "missing_2026-03-01"))
	})

	t.Run("LogRoundTrip", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		entry := models.NewLogEntry("h1", "2026-03-01", base)
		require.NoError(t, s.PutLog(ctx, entry))

		got, err := s.GetLog(ctx, "h1_2026-03-01")
		require.NoError(t, err)
		assert.Equal(t, entry.HabitID, got.HabitID)
		assert.Equal(t, entry.Date, got.Date)
		assert.True(t, entry.CompletedAt.Equal(got.CompletedAt))

		require.NoError(t, s.DeleteLog(ctx, entry.ID))
		_, err = s.GetLog(ctx, entry.ID)
		assert.True(t, storage.IsNotFound(err))
	})

	t.Run("OneLogPerHabitAndDay", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.PutLog(ctx, models.NewLogEntry("h1", "2026-03-01", base)))
		require.NoError(t, s.PutLog(ctx, models.NewLogEntry("h1", "2026-03-01", base.Add(time.Hour))))

		logs, err := s.ListLogs(ctx)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.True(t, base.Add(time.Hour).Equal(logs[0].CompletedAt))
	})

	t.Run("ListLogsOrder", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.PutLog(ctx, models.NewLogEntry("b", "2026-03-02", base)))
		require.NoError(t, s.PutLog(ctx, models.NewLogEntry("a", "2026-03-02", base)))
		require.NoError(t, s.PutLog(ctx, models.NewLogEntry("b", "2026-03-01", base)))

		logs, err := s.ListLogs(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(logs))
		for _, l := range logs {
			ids = append(ids, l.ID)
		}
		assert.Equal(t, []string{"b_2026-03-01", "a_2026-03-02", "b_2026-03-02"}, ids)
	})

	t.Run("DeleteLogsBatch", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.PutLog(ctx, models.NewLogEntry("h1", "2026-03-01", base)))
		require.NoError(t, s.PutLog(ctx, models.NewLogEntry("h1", "2026-03-02", base)))
		require.NoError(t, s.PutLog(ctx, models.NewLogEntry("h1", "2026-03-03", base)))

		n, err := s.DeleteLogsBatch(ctx, []string{"h1_2026-03-01", "h1_2026-03-03", "h1_1999-01-01"})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = s.DeleteLogsBatch(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, n)

		logs, err := s.ListLogs(ctx)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "2026-03-02", logs[0].Date)
	})

	t.Run("DeleteHabitLeavesLogs", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.PutHabit(ctx, models.Habit{ID: "h1", Name: "Read", CreatedAt: base}))
		require.NoError(t, s.PutLog(ctx, models.NewLogEntry("h1", "2026-03-01", base)))

		require.NoError(t, s.DeleteHabit(ctx, "h1"))

		habits, err := s.ListHabits(ctx)
		require.NoError(t, err)
		assert.Empty(t, habits)

		entry, err := s.GetLog(ctx, "h1_2026-03-01")
		require.NoError(t, err)
		assert.Equal(t, "h1", entry.HabitID)
	})

	t.Run("DeleteLogsForHabit", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.PutLog(ctx, models.NewLogEntry("h1", "2026-03-01", base)))
		require.NoError(t, s.PutLog(ctx, models.NewLogEntry("h1", "2026-03-02", base)))
		require.NoError(t, s.PutLog(ctx, models.NewLogEntry("h2", "2026-03-01", base)))

		n, err := s.DeleteLogsForHabit(ctx, "h1")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		logs, err := s.ListLogs(ctx)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "h2", logs[0].HabitID)
	})

	t.Run("ConcurrentWrites", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				day := base.AddDate(0, 0, i).Format("2006-01-02")
				assert.NoError(t, s.PutLog(ctx, models.NewLogEntry("h1", day, base)))
			}(i)
		}
		wg.Wait()

		logs, err := s.ListLogs(ctx)
		require.NoError(t, err)
		assert.Len(t, logs, 20)
	})
}
