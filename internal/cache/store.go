package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"trackdig/internal/config"
)

// ErrMiss is returned when a cache key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is the shared response cache and run-history store, backed by
// SQLite. One instance is passed explicitly to every collector; there is no
// process-global cache.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Entry is one cached source response.
type Entry struct {
	Key       string
	Source    string
	Query     string
	Payload   []byte
	FetchedAt time.Time
	ExpiresAt time.Time
}

// HistoryRow is one completed research run, kept for the history command.
type HistoryRow struct {
	ID         int64
	RunID      string
	Query      string
	Solved     bool
	Confidence float64
	Reason     string
	Sources    int
	Duration   time.Duration
	CreatedAt  time.Time
}

// Open initializes or connects to the cache database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "cache.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: flock.New(dbPath + ".lock")}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the cache database location.
func (s *Store) Path() string {
	return s.path
}

// CacheKey derives the storage key for a source/query pair.
func CacheKey(source, query string) string {
	sum := sha256.Sum256([]byte(source + "\x00" + query))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached payload for a source/query pair, or ErrMiss when
// absent or expired. Expired rows are deleted on read.
func (s *Store) Get(ctx context.Context, source, query string) ([]byte, error) {
	key := CacheKey(source, query)
	row := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM cache_entries WHERE key = ?`, key)

	var payload []byte
	var expiresAt string
	if err := row.Scan(&payload, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("read cache entry: %w", err)
	}

	expiry, err := time.Parse(time.RFC3339Nano, expiresAt)
	if err != nil || !time.Now().Before(expiry) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
		return nil, ErrMiss
	}
	return payload, nil
}

// Put stores a payload for a source/query pair with the given TTL. A zero or
// negative TTL disables caching for the call.
func (s *Store) Put(ctx context.Context, source, query string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, source, query, payload, fetched_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at`,
		CacheKey(source, query), source, query, payload,
		now.Format(time.RFC3339Nano), now.Add(ttl).Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Stats reports entry counts per source, expired entries included.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, COUNT(*) FROM cache_entries GROUP BY source ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("cache stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("scan cache stats: %w", err)
		}
		stats[source] = count
	}
	return stats, rows.Err()
}

// Prune removes expired entries. The advisory file lock keeps concurrent CLI
// invocations from pruning over each other.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	return s.maintain(ctx, `DELETE FROM cache_entries WHERE expires_at <= ?`,
		time.Now().UTC().Format(time.RFC3339Nano))
}

// Clear removes every cache entry.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	return s.maintain(ctx, `DELETE FROM cache_entries`)
}

func (s *Store) maintain(ctx context.Context, query string, args ...any) (int64, error) {
	locked, err := s.lock.TryLock()
	if err != nil {
		return 0, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !locked {
		return 0, errors.New("cache is locked by another trackdig process")
	}
	defer func() { _ = s.lock.Unlock() }()

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("cache maintenance: %w", err)
	}
	return result.RowsAffected()
}

// RecordRun appends one research run outcome to the history table.
func (s *Store) RecordRun(ctx context.Context, row HistoryRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO research_history (run_id, query, solved, confidence, reason, sources, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		row.RunID, row.Query, boolToInt(row.Solved), row.Confidence, row.Reason,
		row.Sources, row.Duration.Milliseconds(),
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// History returns the most recent research runs, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]HistoryRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, query, solved, confidence, reason, sources, duration_ms, created_at
		FROM research_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	defer rows.Close()

	var history []HistoryRow
	for rows.Next() {
		var row HistoryRow
		var solved int
		var durationMS int64
		var createdAt string
		if err := rows.Scan(&row.ID, &row.RunID, &row.Query, &solved, &row.Confidence,
			&row.Reason, &row.Sources, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		row.Solved = solved != 0
		row.Duration = time.Duration(durationMS) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			row.CreatedAt = ts
		}
		history = append(history, row)
	}
	return history, rows.Err()
}

func (s *Store) applySchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS cache_entries (
			key TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			query TEXT NOT NULL,
			payload BLOB NOT NULL,
			fetched_at TEXT NOT NULL,
			expires_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_entries_source ON cache_entries(source)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_entries_expires ON cache_entries(expires_at)`,
		`CREATE TABLE IF NOT EXISTS research_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			query TEXT NOT NULL,
			solved INTEGER NOT NULL,
			confidence REAL NOT NULL,
			reason TEXT NOT NULL,
			sources INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
