package streak

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const (
	createKV  = `CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value INTEGER NOT NULL)`
	streakKey = "win_streak"
	selectKV  = `SELECT value FROM kv WHERE key = ?`
	upsertKV  = `INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
)

// SQLiteStore keeps the streak in a single-row key/value table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	db, err := sql.Open("sqlite", clean+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(createKV); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, selectKV, streakKey).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select streak: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Set(ctx context.Context, n int) error {
	if _, err := s.db.ExecContext(ctx, upsertKV, streakKey, n); err != nil {
		return fmt.Errorf("store streak: %w", err)
	}
	return nil
}
