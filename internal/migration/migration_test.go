package migration

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func migrationsFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestGetCurrentVersionFreshDatabase(t *testing.T) {
	runner := NewRunner(setupTestDB(t), migrationsFS(nil))

	version, err := runner.GetCurrentVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, version)
}

func TestReadMigrationFiles(t *testing.T) {
	runner := NewRunner(setupTestDB(t), migrationsFS(map[string]string{
		"003_another.sql": "CREATE TABLE test2 (id INTEGER);",
		"001_init.sql":    "CREATE TABLE test1 (id INTEGER);",
		"002_update.sql":  "ALTER TABLE test1 ADD COLUMN name TEXT;",
		"README.md":       "not a migration",
	}))

	migrations, err := runner.ReadMigrationFiles()
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "init", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
	assert.Equal(t, "update", migrations[1].Name)
	assert.Equal(t, 3, migrations[2].Version)
	assert.Equal(t, "another", migrations[2].Name)
}

func TestReadMigrationFilesInvalid(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{name: "missing name", files: map[string]string{"001.sql": "SELECT 1;"}},
		{name: "non-numeric version", files: map[string]string{"abc_init.sql": "SELECT 1;"}},
		{name: "zero version", files: map[string]string{"000_init.sql": "SELECT 1;"}},
		{name: "duplicate version", files: map[string]string{"001_a.sql": "SELECT 1;", "001_b.sql": "SELECT 1;"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(setupTestDB(t), migrationsFS(tt.files))
			_, err := runner.ReadMigrationFiles()
			assert.Error(t, err)
		})
	}
}

func TestApplyMigrations(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := NewRunner(db, migrationsFS(map[string]string{
		"001_init.sql":  "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);",
		"002_posts.sql": "CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER);",
	}))

	var messages []string
	applied, err := runner.ApplyMigrations(ctx, func(s string) { messages = append(messages, s) })
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.NotEmpty(t, messages)

	version, err := runner.GetCurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	_, err = db.Exec("INSERT INTO posts (id, user_id) VALUES (1, 1)")
	assert.NoError(t, err)

	// Second run is a no-op
	applied, err = runner.ApplyMigrations(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)
	assert.NoError(t, runner.ValidateVersion(ctx))
}

func TestApplyMigrationsRollsBackFailedMigration(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := NewRunner(db, migrationsFS(map[string]string{
		"001_init.sql":   "CREATE TABLE users (id INTEGER PRIMARY KEY);",
		"002_broken.sql": "CREATE TABLE oops (;",
	}))

	applied, err := runner.ApplyMigrations(ctx, nil)
	require.Error(t, err)
	assert.Equal(t, 1, applied)

	version, err := runner.GetCurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestValidateVersion(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	fsys := migrationsFS(map[string]string{
		"001_init.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY);",
	})
	runner := NewRunner(db, fsys)

	// Behind
	assert.Error(t, runner.ValidateVersion(ctx))

	_, err := runner.ApplyMigrations(ctx, nil)
	require.NoError(t, err)
	assert.NoError(t, runner.ValidateVersion(ctx))

	// Newer than the binary supports
	_, err = db.Exec("UPDATE schema_version SET version = 9")
	require.NoError(t, err)
	assert.Error(t, runner.ValidateVersion(ctx))
	_, err = runner.ApplyMigrations(ctx, nil)
	assert.Error(t, err)
}
