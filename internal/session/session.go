// Package session ties the store, retention, and toggling together behind a
// cache of the current habits and logs.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/levelup/internal/analytics"
	"github.com/julianstephens/levelup/internal/logger"
	"github.com/julianstephens/levelup/internal/models"
	"github.com/julianstephens/levelup/internal/retention"
	"github.com/julianstephens/levelup/internal/storage"
	"github.com/julianstephens/levelup/internal/toggle"
	"github.com/julianstephens/levelup/internal/utils"
)

var (
	ErrEmptyName     = errors.New("habit name cannot be empty")
	ErrDuplicateName = errors.New("a habit with that name already exists")
	ErrHabitNotFound = errors.New("habit not found")
)

type Session struct {
	store   storage.Provider
	toggler *toggle.Service
	clock   func() time.Time
	loc     *time.Location

	mu       sync.RWMutex
	settings models.Settings
	habits   []models.Habit
	logs     []models.LogEntry
	done     map[string]bool
	pruned   int
}

type Option func(*Session)

// WithClock overrides the wall clock used for "today" and timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithLocation pins the session to loc instead of the timezone setting.
func WithLocation(loc *time.Location) Option {
	return func(s *Session) {
		s.loc = loc
	}
}

// Open opens store, prunes expired logs and loads the cache. Nothing is
// readable from the session before pruning has finished.
func Open(ctx context.Context, store storage.Provider, opts ...Option) (*Session, error) {
	s := &Session{
		store: store,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.toggler = toggle.NewService(store, toggle.WithClock(s.clock))

	if err := store.Open(ctx); err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	settings, err := store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	s.settings = settings
	if s.loc == nil {
		loc, err := utils.LoadLocation(settings.Timezone)
		if err != nil {
			logger.Warn("Invalid timezone setting, using local time", "timezone", settings.Timezone, "error", err)
			loc = time.Local
		}
		s.loc = loc
	}

	pruned, err := retention.NewPolicy(store).Prune(ctx, s.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to prune logs: %w", err)
	}
	s.pruned = pruned

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Now returns the current time in the session location.
func (s *Session) Now() time.Time {
	return s.clock().In(s.Location())
}

func (s *Session) Location() *time.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loc
}

func (s *Session) Store() storage.Provider {
	return s.store
}

// Pruned reports how many logs were removed when the session opened.
func (s *Session) Pruned() int {
	return s.pruned
}

// Refresh reloads habits and logs from the store.
func (s *Session) Refresh(ctx context.Context) error {
	habits, err := s.store.ListHabits(ctx)
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	logs, err := s.store.ListLogs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load logs: %w", err)
	}

	done := make(map[string]bool, len(logs))
	for _, l := range logs {
		done[models.LogID(l.HabitID, l.Date)] = true
	}

	s.mu.Lock()
	s.habits = habits
	s.logs = logs
	s.done = done
	s.mu.Unlock()
	return nil
}

func (s *Session) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Session) Habits() []models.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Habit, len(s.habits))
	copy(out, s.habits)
	return out
}

func (s *Session) Logs() []models.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}

// Window returns the grid days ending today, oldest first.
func (s *Session) Window() []time.Time {
	return utils.Window(s.Now())
}

// Today returns today's date key.
func (s *Session) Today() string {
	return utils.FormatKey(s.Now())
}

func (s *Session) IsCompleted(habitID, dateKey string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done[models.LogID(habitID, dateKey)]
}

func (s *Session) Scores() []analytics.DayScore {
	return analytics.DailyScores(s.Habits(), s.Logs(), s.Window())
}

func (s *Session) Summary() analytics.Summary {
	habits, logs := s.Habits(), s.Logs()
	return analytics.Summarize(analytics.DailyScores(habits, logs, s.Window()), habits, logs)
}

func (s *Session) HabitStats() []analytics.HabitStat {
	return analytics.HabitStats(s.Habits(), s.Logs(), s.Window())
}

// FindHabit looks a habit up by id, then by case-insensitive name.
func (s *Session) FindHabit(ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.habits {
		if h.ID == ref {
			return h, nil
		}
	}
	for _, h := range s.habits {
		if strings.EqualFold(h.Name, ref) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("%w: %s", ErrHabitNotFound, ref)
}

func (s *Session) AddHabit(ctx context.Context, name string) (models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Habit{}, ErrEmptyName
	}
	if _, err := s.FindHabit(name); err == nil {
		return models.Habit{}, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	h := models.Habit{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.clock(),
	}
	if err := s.store.PutHabit(ctx, h); err != nil {
		return models.Habit{}, fmt.Errorf("failed to save habit: %w", err)
	}
	logger.Info("Added habit", "id", h.ID, "name", h.Name)
	return h, s.Refresh(ctx)
}

// DeleteHabit removes the habit and, when cascade is enabled in settings,
// its logs. It returns how many logs were removed.
func (s *Session) DeleteHabit(ctx context.Context, id string) (int, error) {
	return s.deleteHabit(ctx, id, s.Settings().CascadeDelete)
}

// DeleteHabitKeepLogs removes the habit and leaves its logs orphaned.
func (s *Session) DeleteHabitKeepLogs(ctx context.Context, id string) error {
	_, err := s.deleteHabit(ctx, id, false)
	return err
}

func (s *Session) deleteHabit(ctx context.Context, id string, cascade bool) (int, error) {
	h, err := s.FindHabit(id)
	if err != nil {
		return 0, err
	}

	// logs go first so a failure never leaves logs without their habit
	removed := 0
	if cascade {
		removed, err = s.store.DeleteLogsForHabit(ctx, h.ID)
		if err != nil {
			_ = s.Refresh(ctx)
			return 0, fmt.Errorf("failed to delete logs for habit: %w", err)
		}
	}

	if err := s.store.DeleteHabit(ctx, h.ID); err != nil {
		_ = s.Refresh(ctx)
		return removed, fmt.Errorf("failed to delete habit: %w", err)
	}
	logger.Info("Deleted habit", "id", h.ID, "name", h.Name, "logs_removed", removed)
	return removed, s.Refresh(ctx)
}

// Toggle flips completion of a habit, by id or name, on dateKey and refreshes the cache.
func (s *Session) Toggle(ctx context.Context, habitID, dateKey string) (toggle.Result, error) {
	h, err := s.FindHabit(habitID)
	if err != nil {
		return toggle.Result{}, err
	}
	res, err := s.toggler.Toggle(ctx, h.ID, dateKey)
	if err != nil {
		// the store stays authoritative even when the write failed
		_ = s.Refresh(ctx)
		return toggle.Result{}, err
	}
	return res, s.Refresh(ctx)
}

// UpdateSettings saves settings and applies the timezone to the session.
func (s *Session) UpdateSettings(ctx context.Context, settings models.Settings) error {
	models.ApplyDefaultSettings(&settings)
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.mu.Lock()
	s.settings = settings
	s.loc = loc
	s.mu.Unlock()
	return nil
}
