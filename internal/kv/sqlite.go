package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sqliteSchemaVersion = 1

var ErrSchemaVersion = errors.New("unsupported slot database version")

// SQLiteOptions configures [OpenSQLite].
type SQLiteOptions struct {
	// MaxPages caps the database size in pages (PRAGMA max_page_count).
	// Zero leaves SQLite's default.
	MaxPages int
}

// SQLiteStore keeps slots as rows of a single table.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// OpenSQLite opens (creating if needed) the slot database at path.
func OpenSQLite(ctx context.Context, path string, opts SQLiteOptions) (*SQLiteStore, error) {
	db, err := openSQLite(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	err = ensureSchema(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func openSQLite(ctx context.Context, path string, opts SQLiteOptions) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("open sqlite: path is empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection keeps per-connection pragmas in force for every query.
	db.SetMaxOpenConns(1)

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	statements := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 2000",
	}

	if opts.MaxPages > 0 {
		statements = append(statements, fmt.Sprintf("PRAGMA max_page_count = %d", opts.MaxPages))
	}

	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			_ = db.Close()

			return nil, fmt.Errorf("apply pragma %q: %w", stmt, err)
		}
	}

	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	var version int

	err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	switch version {
	case sqliteSchemaVersion:
		return nil
	case 0:
	default:
		return fmt.Errorf("%w: %d", ErrSchemaVersion, version)
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS slots (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		) WITHOUT ROWID`,
		fmt.Sprintf("PRAGMA user_version = %d", sqliteSchemaVersion),
	}

	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("apply schema statement %q: %w", stmt, err)
		}
	}

	return nil
}

func (s *SQLiteStore) Get(key string) ([]byte, error) {
	err := checkKey(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	var value []byte

	err = s.db.QueryRow("SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}

		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	return value, nil
}

func (s *SQLiteStore) Put(key string, value []byte) error {
	err := checkKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	_, err = s.db.Exec(`
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		if isFull(err) {
			return fmt.Errorf("%w: write %s: %w", ErrQuotaExceeded, key, err)
		}

		return fmt.Errorf("write %s: %w", key, err)
	}

	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	err := checkKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	_, err = s.db.Exec("DELETE FROM slots WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

func (s *SQLiteStore) Size() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	var total int64

	err := s.db.QueryRow("SELECT COALESCE(SUM(LENGTH(value)), 0) FROM slots").Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("size: %w", err)
	}

	return total, nil
}

// Close closes the database. Close is idempotent.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	return s.db.Close()
}

func isFull(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_FULL
	}

	return false
}
