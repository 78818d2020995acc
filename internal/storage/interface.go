package storage

import (
	"context"

	"github.com/julianstephens/levelup/internal/models"
)

// Provider is the persistence contract for habits and their completion logs.
//
// Implementations serialize operations against their underlying connection, so a
// write is visible to every read issued after it returns. Deleting an absent key
// is a no-op; reading one returns an error matching ErrNotFound.
type Provider interface {
	// Lifecycle
	// Open is idempotent and safe to call concurrently; it creates the
	// collections if they do not exist yet.
	Open(ctx context.Context) error
	Close() error

	// Settings
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error

	// Habits
	PutHabit(ctx context.Context, habit models.Habit) error
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	// ListHabits returns every habit ordered by creation time.
	ListHabits(ctx context.Context) ([]models.Habit, error)
	// DeleteHabit removes only the habit record; its logs are left in place.
	DeleteHabit(ctx context.Context, id string) error

	// Logs
	PutLog(ctx context.Context, entry models.LogEntry) error
	GetLog(ctx context.Context, id string) (models.LogEntry, error)
	DeleteLog(ctx context.Context, id string) error
	// ListLogs returns every log ordered by date, then habit id.
	ListLogs(ctx context.Context) ([]models.LogEntry, error)
	// DeleteLogsBatch deletes the given ids and reports how many existed.
	DeleteLogsBatch(ctx context.Context, ids []string) (int, error)
	// DeleteLogsForHabit deletes every log that references habitID.
	DeleteLogsForHabit(ctx context.Context, habitID string) (int, error)

	// Utils
	// Path returns where the store keeps its data, or "" for volatile stores.
	Path() string
}
