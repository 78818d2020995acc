package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/levelup/internal/models"
	"github.com/julianstephens/levelup/internal/storage"
)

func (s *Store) PutHabit(ctx context.Context, habit models.Habit) error {
	db, err := s.conn("put habit")
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO habits (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			created_at = excluded.created_at`,
		habit.ID, habit.Name, formatTimestamp(habit.CreatedAt))
	return classify("put habit", err)
}

func (s *Store) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	db, err := s.conn("get habit")
	if err != nil {
		return models.Habit{}, err
	}

	row := db.QueryRowContext(ctx, `SELECT id, name, created_at FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, storage.NewError("get habit", storage.KindNotFound, fmt.Errorf("habit %q", id))
		}
		return models.Habit{}, classify("get habit", err)
	}
	return h, nil
}

func (s *Store) ListHabits(ctx context.Context) ([]models.Habit, error) {
	db, err := s.conn("list habits")
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, name, created_at FROM habits ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, classify("list habits", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, classify("list habits", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list habits", err)
	}
	return habits, nil
}

func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	db, err := s.conn("delete habit")
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	return classify("delete habit", err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var createdAt string
	if err := row.Scan(&h.ID, &h.Name, &createdAt); err != nil {
		return models.Habit{}, err
	}

	t, err := parseTimestamp(createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	h.CreatedAt = t
	return h, nil
}
