// Package store persists lookup history on the host side: which values were
// looked up, whether they hit or missed, and how each batch ended. It is
// bookkeeping for operators, not a response cache — the adapter itself never
// reads from it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/radar989/crits/internal/crits"
)

// Store represents the SQLite history implementation
type Store struct {
	db *sql.DB
}

// LookupEntry is one recorded lookup outcome
type LookupEntry struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id,omitempty"`
	Value     string    `json:"value"`
	Kind      string    `json:"kind"`
	Matches   int       `json:"matches"`
	Miss      bool      `json:"miss"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStore creates a new SQLite store instance
func NewStore(dbPath string) (*Store, error) {
	// Ensure target directory exists (e.g., ./data)
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = sqliteDSN(dbPath)
	}

	db, err := sql.Open(sqliteDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate performs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS lookups (
			id TEXT PRIMARY KEY,
			request_id TEXT,
			value TEXT NOT NULL,
			kind TEXT NOT NULL,
			matches INTEGER NOT NULL DEFAULT 0,
			miss INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			created_at INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_lookups_value ON lookups(value)`,
		`CREATE INDEX IF NOT EXISTS idx_lookups_kind ON lookups(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_lookups_created_at ON lookups(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// RecordBatch records the outcome of one batch invocation, one row per
// indicator that was eligible for lookup. A batch error is attributed to
// every indicator in the batch since the adapter aborts all-or-nothing.
func (s *Store) RecordBatch(ctx context.Context, requestID string, indicators []crits.Indicator, results []crits.LookupResult, lookupErr error) error {
	now := time.Now()

	matches := make(map[string]int)
	misses := make(map[string]bool)
	for _, result := range results {
		if result.Data == nil {
			misses[result.Entity.Value] = true
			continue
		}
		matches[result.Entity.Value]++
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO lookups (id, request_id, value, kind, matches, miss, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, indicator := range indicators {
		errText := ""
		if lookupErr != nil {
			errText = lookupErr.Error()
		}
		_, err := stmt.ExecContext(ctx,
			uuid.New().String(),
			requestID,
			indicator.Value,
			indicator.Kind(),
			matches[indicator.Value],
			boolToInt(misses[indicator.Value]),
			errText,
			now.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert lookup row for %s: %w", indicator.Value, err)
		}
	}

	return tx.Commit()
}

// RecentLookups returns the most recent lookup entries, newest first.
func (s *Store) RecentLookups(ctx context.Context, limit int) ([]LookupEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, request_id, value, kind, matches, miss, error, created_at
		 FROM lookups ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookups: %w", err)
	}
	defer rows.Close()

	var entries []LookupEntry
	for rows.Next() {
		var (
			entry     LookupEntry
			miss      int
			createdAt int64
		)
		if err := rows.Scan(&entry.ID, &entry.RequestID, &entry.Value, &entry.Kind,
			&entry.Matches, &miss, &entry.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan lookup row: %w", err)
		}
		entry.Miss = miss != 0
		entry.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CountLookups returns the total number of recorded lookups.
func (s *Store) CountLookups(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lookups`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count lookups: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
