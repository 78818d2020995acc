package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/julianstephens/levelup/internal/constants"
	"github.com/julianstephens/levelup/internal/logger"
	"github.com/julianstephens/levelup/internal/migration"
	"github.com/julianstephens/levelup/internal/storage"
	"github.com/julianstephens/levelup/migrations"
)

// MemoryPath opens a private in-memory database that lives as long as the store.
const MemoryPath = ":memory:"

// Store is the sqlite-backed storage.Provider.
type Store struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

var _ storage.Provider = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	if s.path != MemoryPath {
		dir := filepath.Dir(s.path)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return storage.NewError("open", storage.KindUnavailable, fmt.Errorf("failed to create config directory: %w", err))
		}
	}

	// escape the path so '?', '#' and '%' stay part of the file name
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)",
		(&url.URL{Path: s.path}).EscapedPath(), constants.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return storage.NewError("open", storage.KindUnavailable, fmt.Errorf("failed to open database: %w", err))
	}
	// A single connection serializes every operation, which gives
	// read-your-writes and keeps a :memory: database alive.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return classify("open", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return classify("open", fmt.Errorf("failed to run migrations: %w", err))
	}

	if err := ensureDefaultSettings(ctx, db); err != nil {
		db.Close()
		return classify("open", fmt.Errorf("failed to save default settings: %w", err))
	}

	s.db = db
	logger.Debug("Opened sqlite store", "path", s.path)
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) Path() string {
	if s.path == MemoryPath {
		return ""
	}
	return s.path
}

// DB exposes the underlying connection for diagnostics. It is nil until Open succeeds.
func (s *Store) DB() *sql.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}

// conn returns the open database or an unavailable error.
func (s *Store) conn(op string) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, storage.NewError(op, storage.KindUnavailable, errors.New("store is not open"))
	}
	return s.db, nil
}

// SchemaVersion returns the applied schema version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	db, err := s.conn("schema version")
	if err != nil {
		return 0, err
	}
	runner, err := newRunner(db)
	if err != nil {
		return 0, err
	}
	return runner.GetCurrentVersion(ctx)
}

// ValidateSchema fails when the database and the binary disagree on the schema version.
func (s *Store) ValidateSchema(ctx context.Context) error {
	db, err := s.conn("validate schema")
	if err != nil {
		return err
	}
	runner, err := newRunner(db)
	if err != nil {
		return err
	}
	return runner.ValidateVersion(ctx)
}

func newRunner(db *sql.DB) (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(db, subFS), nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	runner, err := newRunner(db)
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(ctx, func(msg string) {
		logger.Info(msg)
	})
	return err
}

// classify maps a sqlite failure onto a storage error kind.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.NewError(op, storage.KindNotFound, err)
	}

	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_FULL:
			return storage.NewError(op, storage.KindQuotaExceeded, err)
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_READONLY,
			sqlite3.SQLITE_IOERR, sqlite3.SQLITE_PERM, sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_BUSY:
			return storage.NewError(op, storage.KindUnavailable, err)
		}
	}
	if errors.Is(err, sql.ErrConnDone) {
		return storage.NewError(op, storage.KindUnavailable, err)
	}
	return storage.NewError(op, storage.KindInternal, err)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(constants.TimestampFormat, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
