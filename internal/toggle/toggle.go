// Package toggle flips the completion state of a habit on a given day.
package toggle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/moby/locker"

	"github.com/julianstephens/levelup/internal/logger"
	"github.com/julianstephens/levelup/internal/models"
	"github.com/julianstephens/levelup/internal/storage"
	"github.com/julianstephens/levelup/internal/utils"
)

var ErrInvalidInput = errors.New("invalid toggle input")

// Result describes the state after a toggle. Entry is set only when Completed.
type Result struct {
	Completed bool
	Entry     models.LogEntry
}

type Service struct {
	store storage.Provider
	clock func() time.Time
	locks *locker.Locker
}

type Option func(*Service)

// WithClock sets the source of CompletedAt timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func NewService(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store: store,
		clock: time.Now,
		locks: locker.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validate(habitID, dateKey string) error {
	if strings.TrimSpace(habitID) == "" {
		return fmt.Errorf("%w: habit id is required", ErrInvalidInput)
	}
	if _, err := utils.ParseKey(dateKey); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// Toggle deletes the log for (habitID, dateKey) if present, otherwise creates it.
// Toggles of the same key are serialized.
func (s *Service) Toggle(ctx context.Context, habitID, dateKey string) (Result, error) {
	if err := validate(habitID, dateKey); err != nil {
		return Result{}, err
	}

	id := models.LogID(habitID, dateKey)
	s.locks.Lock(id)
	defer func() { _ = s.locks.Unlock(id) }()

	_, err := s.store.GetLog(ctx, id)
	switch {
	case err == nil:
		if err := s.store.DeleteLog(ctx, id); err != nil {
			return Result{}, fmt.Errorf("failed to clear completion: %w", err)
		}
		logger.Debug("Toggled off", "habit", habitID, "date", dateKey)
		return Result{Completed: false}, nil
	case storage.IsNotFound(err):
		entry := models.NewLogEntry(habitID, dateKey, s.clock())
		if err := s.store.PutLog(ctx, entry); err != nil {
			return Result{}, fmt.Errorf("failed to record completion: %w", err)
		}
		logger.Debug("Toggled on", "habit", habitID, "date", dateKey)
		return Result{Completed: true, Entry: entry}, nil
	default:
		return Result{}, fmt.Errorf("failed to read completion: %w", err)
	}
}

// IsCompleted reports whether a log exists for (habitID, dateKey).
func (s *Service) IsCompleted(ctx context.Context, habitID, dateKey string) (bool, error) {
	if err := validate(habitID, dateKey); err != nil {
		return false, err
	}
	_, err := s.store.GetLog(ctx, models.LogID(habitID, dateKey))
	if err == nil {
		return true, nil
	}
	if storage.IsNotFound(err) {
		return false, nil
	}
	return false, err
}
