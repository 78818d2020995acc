package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/levelup/internal/models"
	"github.com/julianstephens/levelup/internal/storage"
)

func (s *Store) PutLog(ctx context.Context, entry models.LogEntry) error {
	db, err := s.conn("put log")
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO logs (id, habit_id, date, completed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			habit_id = excluded.habit_id,
			date = excluded.date,
			completed_at = excluded.completed_at`,
		entry.ID, entry.HabitID, entry.Date, formatTimestamp(entry.CompletedAt))
	return classify("put log", err)
}

func (s *Store) GetLog(ctx context.Context, id string) (models.LogEntry, error) {
	db, err := s.conn("get log")
	if err != nil {
		return models.LogEntry{}, err
	}

	row := db.QueryRowContext(ctx, `SELECT id, habit_id, date, completed_at FROM logs WHERE id = ?`, id)
	entry, err := scanLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LogEntry{}, storage.NewError("get log", storage.KindNotFound, fmt.Errorf("log %q", id))
		}
		return models.LogEntry{}, classify("get log", err)
	}
	return entry, nil
}

func (s *Store) DeleteLog(ctx context.Context, id string) error {
	db, err := s.conn("delete log")
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `DELETE FROM logs WHERE id = ?`, id)
	return classify("delete log", err)
}

func (s *Store) ListLogs(ctx context.Context) ([]models.LogEntry, error) {
	db, err := s.conn("list logs")
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, habit_id, date, completed_at FROM logs ORDER BY date ASC, habit_id ASC`)
	if err != nil {
		return nil, classify("list logs", err)
	}
	defer rows.Close()

	logs := []models.LogEntry{}
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			return nil, classify("list logs", err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list logs", err)
	}
	return logs, nil
}

// DeleteLogsBatch deletes ids in a single transaction so a failure removes none of them.
func (s *Store) DeleteLogsBatch(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db, err := s.conn("delete logs")
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, classify("delete logs", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM logs WHERE id = ?`)
	if err != nil {
		return 0, classify("delete logs", err)
	}
	defer stmt.Close()

	deleted := 0
	for _, id := range ids {
		res, err := stmt.ExecContext(ctx, id)
		if err != nil {
			return 0, classify("delete logs", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, classify("delete logs", err)
		}
		deleted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, classify("delete logs", err)
	}
	return deleted, nil
}

func (s *Store) DeleteLogsForHabit(ctx context.Context, habitID string) (int, error) {
	db, err := s.conn("delete habit logs")
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx, `DELETE FROM logs WHERE habit_id = ?`, habitID)
	if err != nil {
		return 0, classify("delete habit logs", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify("delete habit logs", err)
	}
	return int(n), nil
}

func scanLog(row scanner) (models.LogEntry, error) {
	var entry models.LogEntry
	var completedAt string
	if err := row.Scan(&entry.ID, &entry.HabitID, &entry.Date, &completedAt); err != nil {
		return models.LogEntry{}, err
	}

	t, err := parseTimestamp(completedAt)
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("failed to parse completed_at: %w", err)
	}
	entry.CompletedAt = t
	return entry, nil
}
