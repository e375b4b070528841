// Package history persists prompt history and run records in SQLite.
//
// The store backs two features: interactive prompts offer the most recent
// search/replace values as defaults, and `history show`/`history export`
// report past runs. History is strictly an accessory; callers treat every
// store error as non-fatal to the run itself.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// PromptKind distinguishes the two prompt history lists.
type PromptKind string

const (
	PromptSearch  PromptKind = "search"
	PromptReplace PromptKind = "replace"
)

// PromptEntry is one remembered prompt value.
type PromptEntry struct {
	ID     int64
	Kind   PromptKind
	Value  string
	UsedAt time.Time
}

// RunRecord is one completed run as stored and exported.
type RunRecord struct {
	ID                 string    `json:"id"`
	StartedAt          time.Time `json:"started_at"`
	Search             string    `json:"search"`
	Replacement        string    `json:"replacement"`
	Roots              []string  `json:"roots"`
	FilesScanned       int       `json:"files_scanned"`
	FilesMatched       int       `json:"files_matched"`
	TotalOccurrences   int       `json:"total_occurrences"`
	FilesChanged       int       `json:"files_changed"`
	OccurrencesWritten int       `json:"occurrences_written"`
	Unreadable         int       `json:"unreadable"`
	Failures           int       `json:"failures"`
	Outcome            string    `json:"outcome"`
	DurationMs         int64     `json:"duration_ms"`
	DryRun             bool      `json:"dry_run"`
}

// Store manages the SQLite database for prompt and run history
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new Store instance and initializes the database
func NewStore(dbPath string) (*Store, error) {
	// Handle in-memory database
	if dbPath == ":memory:" {
		return openAndInitStore(dbPath)
	}

	// Ensure parent directory exists for file-based databases
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	return openAndInitStore(dbPath)
}

// openAndInitStore opens the database connection and initializes schema
func openAndInitStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure SQLite for concurrent access with retry logic.
	// Set busy_timeout FIRST so subsequent operations wait on locks.
	// Use retry with backoff for "database is locked" errors that can occur
	// during concurrent initialization of the same database file.
	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// execWithRetry executes a SQL statement with exponential backoff retry on lock errors.
func execWithRetry(db *sql.DB, sql string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(sql)
		if err == nil {
			return nil
		}

		// Only retry on "database is locked" errors
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}

		lastErr = err
		// Exponential backoff with jitter
		delay := baseDelay * time.Duration(1<<attempt)
		time.Sleep(delay)
	}
	return lastErr
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// initSchema applies the embedded schema. Every statement is idempotent,
// so reopening an existing database is safe.
func (s *Store) initSchema() error {
	if err := execWithRetry(s.db, schemaSQL, 5, 10*time.Millisecond); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// tableExists checks if a table exists in the database
func (s *Store) tableExists(tableName string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`
	err := s.db.QueryRow(query, tableName).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check table existence: %w", err)
	}
	return count > 0, nil
}

// indexExists checks if an index exists in the database
func (s *Store) indexExists(indexName string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?`
	err := s.db.QueryRow(query, indexName).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check index existence: %w", err)
	}
	return count > 0, nil
}

// validKind reports whether k is a known prompt kind.
func validKind(k PromptKind) bool {
	return k == PromptSearch || k == PromptReplace
}

// RecordPrompt remembers a prompt value. Reusing a value moves it to the
// front of its list instead of duplicating it; rows beyond maxEntries per
// kind are pruned. maxEntries <= 0 disables pruning.
func (s *Store) RecordPrompt(ctx context.Context, kind PromptKind, value string, maxEntries int) error {
	if !validKind(kind) {
		return fmt.Errorf("unknown prompt kind %q", kind)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Upsert: an existing (kind, value) row keeps its id, only used_at moves
	upsert := `INSERT INTO prompt_history (kind, value, used_at)
		VALUES (?, ?, ?)
		ON CONFLICT(kind, value) DO UPDATE SET used_at = excluded.used_at`

	if _, err := tx.ExecContext(ctx, upsert, string(kind), value, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert prompt: %w", err)
	}

	if maxEntries > 0 {
		prune := `DELETE FROM prompt_history
			WHERE kind = ?
			  AND id NOT IN (
				SELECT id FROM prompt_history
				WHERE kind = ?
				ORDER BY used_at DESC, id DESC
				LIMIT ?
			  )`
		if _, err := tx.ExecContext(ctx, prune, string(kind), string(kind), maxEntries); err != nil {
			return fmt.Errorf("prune prompts: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// RecentPrompts retrieves the most recently used prompt values for a kind,
// newest first. limit <= 0 returns every entry.
func (s *Store) RecentPrompts(ctx context.Context, kind PromptKind, limit int) ([]PromptEntry, error) {
	if !validKind(kind) {
		return nil, fmt.Errorf("unknown prompt kind %q", kind)
	}

	query := `SELECT id, kind, value, used_at
		FROM prompt_history
		WHERE kind = ?
		ORDER BY used_at DESC, id DESC`

	args := []interface{}{string(kind)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}
	defer rows.Close()

	var entries []PromptEntry
	for rows.Next() {
		var entry PromptEntry
		var kindVal string
		if err := rows.Scan(&entry.ID, &kindVal, &entry.Value, &entry.UsedAt); err != nil {
			return nil, fmt.Errorf("scan prompt row: %w", err)
		}
		entry.Kind = PromptKind(kindVal)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prompts: %w", err)
	}

	return entries, nil
}

// RecordRun stores a completed run and returns its assigned ID.
func (s *Store) RecordRun(ctx context.Context, summary *models.RunSummary, startedAt time.Time) (string, error) {
	if summary == nil {
		return "", fmt.Errorf("nil summary")
	}

	rootsJSON, err := json.Marshal(summary.Roots)
	if err != nil {
		return "", fmt.Errorf("marshal roots: %w", err)
	}

	id := uuid.New().String()

	query := `INSERT INTO runs
		(id, started_at, search, replacement, roots, files_scanned, files_matched,
		 total_occurrences, files_changed, occurrences_written, unreadable,
		 failures, outcome, duration_ms, dry_run)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		id,
		startedAt.UTC(),
		summary.Search,
		summary.Replacement,
		string(rootsJSON),
		summary.FilesScanned,
		summary.FilesMatched,
		summary.TotalOccurrences,
		summary.FilesChanged,
		summary.OccurrencesWritten,
		summary.Unreadable,
		len(summary.Failures),
		summary.Outcome(),
		summary.Duration.Milliseconds(),
		summary.DryRun,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the most recent runs, newest first.
// limit <= 0 returns every run.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `SELECT id, started_at, search, replacement, roots, files_scanned,
		files_matched, total_occurrences, files_changed, occurrences_written,
		unreadable, failures, outcome, duration_ms, dry_run
		FROM runs
		ORDER BY started_at DESC, id DESC`

	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var rootsJSON string
		if err := rows.Scan(
			&rec.ID,
			&rec.StartedAt,
			&rec.Search,
			&rec.Replacement,
			&rootsJSON,
			&rec.FilesScanned,
			&rec.FilesMatched,
			&rec.TotalOccurrences,
			&rec.FilesChanged,
			&rec.OccurrencesWritten,
			&rec.Unreadable,
			&rec.Failures,
			&rec.Outcome,
			&rec.DurationMs,
			&rec.DryRun,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		if err := json.Unmarshal([]byte(rootsJSON), &rec.Roots); err != nil {
			return nil, fmt.Errorf("unmarshal roots: %w", err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return records, nil
}

// ExportRuns writes every stored run to w as indented JSON and returns the
// number of runs written. An empty store exports [] rather than null.
func (s *Store) ExportRuns(ctx context.Context, w io.Writer) (int, error) {
	records, err := s.RecentRuns(ctx, 0)
	if err != nil {
		return 0, err
	}

	// Initialize empty slice if nil to ensure JSON output is [] not null
	if records == nil {
		records = make([]RunRecord, 0)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return 0, fmt.Errorf("encode runs: %w", err)
	}

	return len(records), nil
}

// ClearAll deletes every prompt entry and run record.
func (s *Store) ClearAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM prompt_history`); err != nil {
		return fmt.Errorf("clear prompts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs`); err != nil {
		return fmt.Errorf("clear runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
