package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// OpenMode controls how OpenSQLite treats an existing file.
type OpenMode int

const (
	// ModeCreate removes any existing file and creates a fresh schema.
	ModeCreate OpenMode = iota
	// ModeOpen opens an existing history and fails if the schema is missing.
	ModeOpen
)

const (
	timeLayout       = time.RFC3339Nano
	sqliteBusyMillis = 5000
)

var schema = []string{`
CREATE TABLE record (
	id INTEGER PRIMARY KEY,
	start_time TEXT NOT NULL,
	stdout BLOB NOT NULL,
	stderr BLOB NOT NULL,
	end_time TEXT NOT NULL,
	exit_code INTEGER NOT NULL,
	diff_add INTEGER,
	diff_delete INTEGER,
	previous_id INTEGER
)`, `
CREATE TABLE runtime_config (
	interval INTEGER NOT NULL,
	command TEXT NOT NULL
)`}

// SQLiteStore persists the history in a single SQLite file. Every operation
// holds the store mutex, so the one connection is never used concurrently and
// callers block rather than fail.
type SQLiteStore struct {
	mu   sync.Mutex
	db   *sqlx.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

type recordRow struct {
	ID         int64         `db:"id"`
	StartTime  string        `db:"start_time"`
	Stdout     []byte        `db:"stdout"`
	Stderr     []byte        `db:"stderr"`
	EndTime    string        `db:"end_time"`
	ExitCode   int           `db:"exit_code"`
	DiffAdd    sql.NullInt64 `db:"diff_add"`
	DiffDelete sql.NullInt64 `db:"diff_delete"`
	PreviousID sql.NullInt64 `db:"previous_id"`
}

type runtimeConfigRow struct {
	Interval int64  `db:"interval"`
	Command  string `db:"command"`
}

// OpenSQLite opens the history database at path.
func OpenSQLite(ctx context.Context, path string, mode OpenMode) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve sqlite path: %w", err)
	}

	switch mode {
	case ModeCreate:
		if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove existing history: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	case ModeOpen:
		if _, err := os.Stat(abs); err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", abs, sqliteBusyMillis)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &SQLiteStore{db: db, path: abs}
	switch mode {
	case ModeCreate:
		for _, stmt := range schema {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("create schema: %w", err)
			}
		}
	case ModeOpen:
		if err := s.checkSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

// Path returns the absolute path of the database file.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) checkSchema(ctx context.Context) error {
	var tables []string
	err := s.db.SelectContext(ctx, &tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('record', 'runtime_config')`)
	if err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}
	if len(tables) != 2 {
		return fmt.Errorf("%s: %w", s.path, ErrNotInitialized)
	}
	return nil
}

// AddRecord inserts r.
func (s *SQLiteStore) AddRecord(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := toRow(r)
	_, err := s.db.NamedExecContext(ctx, `
INSERT INTO record (
	id, start_time, stdout, stderr, end_time, exit_code, diff_add, diff_delete, previous_id
) VALUES (
	:id, :start_time, :stdout, :stderr, :end_time, :exit_code, :diff_add, :diff_delete, :previous_id
)`, row)
	if err != nil {
		return fmt.Errorf("insert record %d: %w", r.ID, err)
	}
	return nil
}

// Record returns the record with the given id.
func (s *SQLiteStore) Record(ctx context.Context, id ExecutionID) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var row recordRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM record WHERE id = ?`, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("select record %d: %w", id, err)
	}
	r, err := fromRow(row)
	if err != nil {
		return Record{}, false, err
	}
	return r, true, nil
}

// LatestID returns the highest stored id.
func (s *SQLiteStore) LatestID(ctx context.Context) (ExecutionID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := s.db.GetContext(ctx, &id, `SELECT id FROM record ORDER BY id DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("select latest id: %w", err)
	}
	return ExecutionID(id), true, nil
}

// Records returns every record ordered by id.
func (s *SQLiteStore) Records(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []recordRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM record ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		r, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// RuntimeConfig returns the most recently inserted configuration row.
func (s *SQLiteStore) RuntimeConfig(ctx context.Context) (RuntimeConfig, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var row runtimeConfigRow
	err := s.db.GetContext(ctx, &row,
		`SELECT interval, command FROM runtime_config ORDER BY ROWID DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return RuntimeConfig{}, false, nil
	}
	if err != nil {
		return RuntimeConfig{}, false, fmt.Errorf("select runtime config: %w", err)
	}

	var command []string
	if err := json.Unmarshal([]byte(row.Command), &command); err != nil {
		return RuntimeConfig{}, false, fmt.Errorf("decode runtime command: %w", err)
	}
	return RuntimeConfig{
		Interval: time.Duration(row.Interval) * time.Millisecond,
		Command:  command,
	}, true, nil
}

// SetRuntimeConfig appends cfg; later rows win on read.
func (s *SQLiteStore) SetRuntimeConfig(ctx context.Context, cfg RuntimeConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	command, err := json.Marshal(cfg.Command)
	if err != nil {
		return fmt.Errorf("encode runtime command: %w", err)
	}
	row := runtimeConfigRow{
		Interval: cfg.Interval.Milliseconds(),
		Command:  string(command),
	}
	if _, err := s.db.NamedExecContext(ctx,
		`INSERT INTO runtime_config (interval, command) VALUES (:interval, :command)`, row); err != nil {
		return fmt.Errorf("insert runtime config: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

func toRow(r Record) recordRow {
	row := recordRow{
		ID:        int64(r.ID),
		StartTime: r.StartTime.UTC().Format(timeLayout),
		Stdout:    nonNil(r.Stdout),
		Stderr:    nonNil(r.Stderr),
		EndTime:   r.EndTime.UTC().Format(timeLayout),
		ExitCode:  r.ExitCode,
	}
	if r.Diff != nil {
		row.DiffAdd = sql.NullInt64{Int64: int64(r.Diff.Added), Valid: true}
		row.DiffDelete = sql.NullInt64{Int64: int64(r.Diff.Deleted), Valid: true}
	}
	if r.PreviousID != nil {
		row.PreviousID = sql.NullInt64{Int64: int64(*r.PreviousID), Valid: true}
	}
	return row
}

func fromRow(row recordRow) (Record, error) {
	start, err := time.Parse(timeLayout, row.StartTime)
	if err != nil {
		return Record{}, fmt.Errorf("parse start_time of record %d: %w", row.ID, err)
	}
	end, err := time.Parse(timeLayout, row.EndTime)
	if err != nil {
		return Record{}, fmt.Errorf("parse end_time of record %d: %w", row.ID, err)
	}

	r := Record{
		ID:        ExecutionID(row.ID),
		StartTime: start.In(time.Local),
		EndTime:   end.In(time.Local),
		Stdout:    row.Stdout,
		Stderr:    row.Stderr,
		ExitCode:  row.ExitCode,
	}
	if row.DiffAdd.Valid && row.DiffDelete.Valid {
		r.Diff = &DiffStat{Added: int(row.DiffAdd.Int64), Deleted: int(row.DiffDelete.Int64)}
	}
	if row.PreviousID.Valid {
		id := ExecutionID(row.PreviousID.Int64)
		r.PreviousID = &id
	}
	return r, nil
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
