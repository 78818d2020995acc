package sqlite

import (
	"context"
	"database/sql"

	"github.com/julianstephens/levelup/internal/models"
)

func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	db, err := s.conn("get settings")
	if err != nil {
		return models.Settings{}, err
	}

	rows, err := db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, classify("get settings", err)
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, classify("get settings", err)
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, classify("get settings", err)
	}

	settings, err := models.MapToSettings(data)
	if err != nil {
		return models.Settings{}, classify("get settings", err)
	}
	return settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings models.Settings) error {
	db, err := s.conn("save settings")
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return classify("save settings", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return classify("save settings", err)
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.ExecContext(ctx, key, value); err != nil {
			return classify("save settings", err)
		}
	}
	return classify("save settings", tx.Commit())
}

// ensureDefaultSettings fills in any setting a database does not have yet.
func ensureDefaultSettings(ctx context.Context, db *sql.DB) error {
	for key, value := range models.SettingsToMap(models.DefaultSettings()) {
		if _, err := db.ExecContext(ctx, "INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)", key, value); err != nil {
			return err
		}
	}
	return nil
}
