package validation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/levelup/internal/models"
	"github.com/julianstephens/levelup/internal/storage"
	"github.com/julianstephens/levelup/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictEmptyHabitName     ConflictType = "empty_habit_name"
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictInvalidLogDate     ConflictType = "invalid_log_date"
	ConflictMismatchedLogID    ConflictType = "mismatched_log_id"
	ConflictOrphanedLog        ConflictType = "orphaned_log"
	ConflictExpiredLog         ConflictType = "expired_log"
	ConflictFutureLog          ConflictType = "future_log"
)

// Conflict represents a detected integrity problem in habits or logs
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	HabitIDs    []string // habits involved
	LogIDs      []string // logs involved (for auto-fixing)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns how many conflicts of type t were found
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks habits and logs for integrity problems
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// Validate checks habits and logs. today is the current date key and
// bounds both the retention cutoff and the future check.
func (v *Validator) Validate(habits []models.Habit, logs []models.LogEntry, today string) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	known := make(map[string]bool, len(habits))
	byName := make(map[string][]string)
	for _, h := range habits {
		known[h.ID] = true
		name := strings.TrimSpace(h.Name)
		if name == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyHabitName,
				Description: fmt.Sprintf("Habit %s has an empty name", h.ID),
				HabitIDs:    []string{h.ID},
			})
			continue
		}
		key := strings.ToLower(name)
		byName[key] = append(byName[key], h.ID)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ids := byName[name]; len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name: \"%s\" (IDs: %v)", name, ids),
				HabitIDs:    ids,
			})
		}
	}

	cutoff := ""
	if ref, err := utils.ParseKey(today); err == nil {
		cutoff = utils.RetentionCutoff(ref)
	}

	for _, l := range logs {
		if !utils.ValidateKey(l.Date) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidLogDate,
				Description: fmt.Sprintf("Log %s has invalid date: %q", l.ID, l.Date),
				HabitIDs:    []string{l.HabitID},
				LogIDs:      []string{l.ID},
			})
			continue
		}

		if habitID, dateKey, ok := models.SplitLogID(l.ID); !ok || habitID != l.HabitID || dateKey != l.Date {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMismatchedLogID,
				Description: fmt.Sprintf("Log %s does not match its habit and date (%s, %s)", l.ID, l.HabitID, l.Date),
				Date:        l.Date,
				HabitIDs:    []string{l.HabitID},
				LogIDs:      []string{l.ID},
			})
		}

		if !known[l.HabitID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanedLog,
				Description: fmt.Sprintf("Log %s references missing habit %s", l.ID, l.HabitID),
				Date:        l.Date,
				HabitIDs:    []string{l.HabitID},
				LogIDs:      []string{l.ID},
			})
		}

		switch {
		case cutoff != "" && l.Date < cutoff:
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictExpiredLog,
				Description: fmt.Sprintf("Log %s is older than the retention cutoff %s", l.ID, cutoff),
				Date:        l.Date,
				HabitIDs:    []string{l.HabitID},
				LogIDs:      []string{l.ID},
			})
		case cutoff != "" && l.Date > today:
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureLog,
				Description: fmt.Sprintf("Log %s is dated in the future (today is %s)", l.ID, today),
				Date:        l.Date,
				HabitIDs:    []string{l.HabitID},
				LogIDs:      []string{l.ID},
			})
		}
	}

	return result
}

// fixable lists the conflicts AutoFix resolves by deleting logs. Habit
// conflicts need a human decision and are left alone. Future logs are
// report-only: moving the timezone west turns a real "today" into the future.
var fixable = map[ConflictType]bool{
	ConflictMismatchedLogID: true,
	ConflictOrphanedLog:     true,
	ConflictExpiredLog:      true,
}

// AutoFix deletes the logs behind fixable conflicts in one batch and
// returns a FixAction per conflict it resolved.
func AutoFix(ctx context.Context, store storage.Provider, result ValidationResult) ([]FixAction, error) {
	seen := make(map[string]bool)
	var ids []string
	var sources []Conflict
	for _, c := range result.Conflicts {
		if !fixable[c.Type] {
			continue
		}
		sources = append(sources, c)
		for _, id := range c.LogIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return []FixAction{}, nil
	}

	if _, err := store.DeleteLogsBatch(ctx, ids); err != nil {
		return nil, fmt.Errorf("failed to delete invalid logs: %w", err)
	}

	actions := make([]FixAction, 0, len(sources))
	for _, c := range sources {
		actions = append(actions, FixAction{
			Action:         fmt.Sprintf("Removed log(s) %v (%s)", c.LogIDs, c.Type),
			SourceConflict: c,
		})
	}
	return actions, nil
}
