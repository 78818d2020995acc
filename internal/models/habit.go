package models

import (
	"strings"
	"time"

	"github.com/julianstephens/levelup/internal/constants"
)

// Habit represents a recurring practice to track
type Habit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// LogEntry records that a habit was completed on a given day.
// Presence means completed; there is no "not completed" record.
type LogEntry struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	Date        string    `json:"date"` // YYYY-MM-DD format
	CompletedAt time.Time `json:"completed_at"`
}

// LogID returns the composite key of the log for habitID on dateKey.
func LogID(habitID, dateKey string) string {
	return habitID + constants.LogIDSeparator + dateKey
}

// SplitLogID is the inverse of LogID. The date is always the trailing
// segment, so habit ids containing the separator are handled.
func SplitLogID(id string) (habitID, dateKey string, ok bool) {
	i := strings.LastIndex(id, constants.LogIDSeparator)
	if i <= 0 || i == len(id)-1 {
		return "", "", false
	}
	return id[:i], id[i+1:], true
}

// NewLogEntry builds the log that marks habitID completed on dateKey.
func NewLogEntry(habitID, dateKey string, completedAt time.Time) LogEntry {
	return LogEntry{
		ID:          LogID(habitID, dateKey),
		HabitID:     habitID,
		Date:        dateKey,
		CompletedAt: completedAt,
	}
}
