// Package history persists a local record of completed SDK requests in a
// SQLite database. Recording is an ambient concern: failures here are logged
// by the caller and never surfaced on the request path.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one completed request.
type Record struct {
	Timestamp  time.Time
	RequestID  string
	Prompt     string
	Model      string
	Mode       string
	Success    bool
	ErrorKind  string
	DurationMS int64
}

// Store persists records in a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates (or opens) the database at path, creating parent directories
// as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	store := &Store{db: db}
	if err := store.init(); err != nil {
		_ = db.Close()

		return nil, err
	}

	return store, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		request_id TEXT,
		prompt TEXT,
		model TEXT,
		mode TEXT,
		success INTEGER,
		error_kind TEXT,
		duration_ms INTEGER
	);`)
	if err != nil {
		return fmt.Errorf("init history schema: %w", err)
	}

	return nil
}

// Save inserts a new record.
func (s *Store) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO requests
		(timestamp, request_id, prompt, model, mode, success, error_kind, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.Format(time.RFC3339),
		rec.RequestID,
		rec.Prompt,
		rec.Model,
		rec.Mode,
		boolToInt(rec.Success),
		rec.ErrorKind,
		rec.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("save history record: %w", err)
	}

	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT timestamp, request_id, prompt, model, mode, success, error_kind, duration_ms
		FROM requests ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []Record

	for rows.Next() {
		var (
			rec     Record
			ts      string
			success int
		)

		if err := rows.Scan(&ts, &rec.RequestID, &rec.Prompt, &rec.Model, &rec.Mode, &success, &rec.ErrorKind, &rec.DurationMS); err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}

		rec.Timestamp, _ = time.Parse(time.RFC3339, ts)
		rec.Success = success != 0

		records = append(records, rec)
	}

	return records, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
