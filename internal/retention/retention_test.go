package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/levelup/internal/models"
	"github.com/julianstephens/levelup/internal/storage"
	"github.com/julianstephens/levelup/internal/storage/memory"
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	require.NoError(t, s.Open(context.Background()))
	return s
}

func dates(t *testing.T, s storage.Provider) []string {
	t.Helper()
	logs, err := s.ListLogs(context.Background())
	require.NoError(t, err)
	out := make([]string, 0, len(logs))
	for _, l := range logs {
		out = append(out, l.Date)
	}
	return out
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		date    string
		removed bool
	}{
		{"41 days old", "2026-01-28", true},
		{"exactly 40 days old", "2026-01-29", false},
		{"39 days old", "2026-01-30", false},
		{"today", "2026-03-10", false},
		{"last year", "2025-03-10", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			require.NoError(t, s.PutLog(ctx, models.NewLogEntry("h1", tt.date, now)))

			n, err := NewPolicy(s).Prune(ctx, now)
			require.NoError(t, err)

			if tt.removed {
				assert.Equal(t, 1, n)
				assert.Empty(t, dates(t, s))
			} else {
				assert.Zero(t, n)
				assert.Equal(t, []string{tt.date}, dates(t, s))
			}
		})
	}
}

func TestPruneIsIdempotent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	s := newStore(t)
	for _, d := range []string{"2026-01-01", "2026-01-15", "2026-02-20", "2026-03-09"} {
		require.NoError(t, s.PutLog(ctx, models.NewLogEntry("h1", d, now)))
	}

	p := NewPolicy(s)
	n, err := p.Prune(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	after := dates(t, s)

	n, err = p.Prune(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, after, dates(t, s))
}

func TestPruneKeepsMalformedDates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	bad := models.LogEntry{ID: "h1_garbage", HabitID: "h1", Date: "garbage"}
	require.NoError(t, s.PutLog(ctx, bad))

	n, err := NewPolicy(s).Prune(ctx, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []string{"garbage"}, dates(t, s))
}

func TestPruneStoreFailure(t *testing.T) {
	s := newStore(t)
	s.FailWith(storage.NewError("list logs", storage.KindUnavailable, errors.New("gone")))

	_, err := NewPolicy(s).Prune(context.Background(), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
}
