// Package memory provides a volatile storage.Provider used by tests and by
// commands that must not touch the user's database.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/julianstephens/levelup/internal/models"
	"github.com/julianstephens/levelup/internal/storage"
)

type Store struct {
	mu       sync.RWMutex
	open     bool
	fail     error
	settings models.Settings
	habits   map[string]models.Habit
	logs     map[string]models.LogEntry
}

var _ storage.Provider = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		settings: models.DefaultSettings(),
		habits:   make(map[string]models.Habit),
		logs:     make(map[string]models.LogEntry),
	}
}

// FailWith makes every subsequent operation other than Close return err.
// Passing nil restores normal behavior.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.open = true
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	return nil
}

func (s *Store) Path() string {
	return ""
}

// check must be called with mu held.
func (s *Store) check(op string) error {
	if s.fail != nil {
		return s.fail
	}
	if !s.open {
		return storage.NewError(op, storage.KindUnavailable, errors.New("store is not open"))
	}
	return nil
}

func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("get settings"); err != nil {
		return models.Settings{}, err
	}
	return s.settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("save settings"); err != nil {
		return err
	}
	models.ApplyDefaultSettings(&settings)
	s.settings = settings
	return nil
}

func (s *Store) PutHabit(ctx context.Context, habit models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("put habit"); err != nil {
		return err
	}
	s.habits[habit.ID] = habit
	return nil
}

func (s *Store) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("get habit"); err != nil {
		return models.Habit{}, err
	}
	h, ok := s.habits[id]
	if !ok {
		return models.Habit{}, storage.NewError("get habit", storage.KindNotFound, fmt.Errorf("habit %q", id))
	}
	return h, nil
}

func (s *Store) ListHabits(ctx context.Context) ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("list habits"); err != nil {
		return nil, err
	}
	habits := make([]models.Habit, 0, len(s.habits))
	for _, h := range s.habits {
		habits = append(habits, h)
	}
	sort.Slice(habits, func(i, j int) bool {
		if habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].ID < habits[j].ID
		}
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
	return habits, nil
}

func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("delete habit"); err != nil {
		return err
	}
	delete(s.habits, id)
	return nil
}

func (s *Store) PutLog(ctx context.Context, entry models.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("put log"); err != nil {
		return err
	}
	s.logs[entry.ID] = entry
	return nil
}

func (s *Store) GetLog(ctx context.Context, id string) (models.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("get log"); err != nil {
		return models.LogEntry{}, err
	}
	entry, ok := s.logs[id]
	if !ok {
		return models.LogEntry{}, storage.NewError("get log", storage.KindNotFound, fmt.Errorf("log %q", id))
	}
	return entry, nil
}

func (s *Store) DeleteLog(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("delete log"); err != nil {
		return err
	}
	delete(s.logs, id)
	return nil
}

func (s *Store) ListLogs(ctx context.Context) ([]models.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("list logs"); err != nil {
		return nil, err
	}
	logs := make([]models.LogEntry, 0, len(s.logs))
	for _, entry := range s.logs {
		logs = append(logs, entry)
	}
	sort.Slice(logs, func(i, j int) bool {
		if logs[i].Date == logs[j].Date {
			return logs[i].HabitID < logs[j].HabitID
		}
		return logs[i].Date < logs[j].Date
	})
	return logs, nil
}

func (s *Store) DeleteLogsBatch(ctx context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("delete logs"); err != nil {
		return 0, err
	}
	deleted := 0
	for _, id := range ids {
		if _, ok := s.logs[id]; ok {
			delete(s.logs, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *Store) DeleteLogsForHabit(ctx context.Context, habitID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("delete habit logs"); err != nil {
		return 0, err
	}
	deleted := 0
	for id, entry := range s.logs {
		if entry.HabitID == habitID {
			delete(s.logs, id)
			deleted++
		}
	}
	return deleted, nil
}
