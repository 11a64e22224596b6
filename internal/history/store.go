// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps an archive of solved problems in SQLite so past
// solutions can be listed, searched, shown again and exported.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/equalearn/pkg/types"
)

const (
	dbFile = "history.db"

	// timeLayout is fixed width so stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

	defaultMaxResults = 20
)

var (
	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("history record not found")

	// ErrAmbiguous is returned when an ID prefix matches several records.
	ErrAmbiguous = errors.New("history id prefix matches more than one record")
)

// Store manages the history SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates dir/history.db and its schema.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("history directory not configured")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, dbFile)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS solutions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			problem TEXT NOT NULL,
			source TEXT NOT NULL,
			raw_solution TEXT NOT NULL,
			final_answer TEXT NOT NULL,
			steps_json TEXT NOT NULL,
			message TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_solutions_created_at ON solutions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_solutions_source ON solutions(source)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Add stores rec and returns it with ID and CreatedAt filled in when they
// were empty. An empty Source is recorded as text.
func (s *Store) Add(ctx context.Context, rec types.Record) (types.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	if rec.Source == "" {
		rec.Source = types.SourceText
	}
	if !rec.Source.Valid() {
		return types.Record{}, fmt.Errorf("unknown problem source %q", rec.Source)
	}
	if rec.Solution.Steps == nil {
		rec.Solution.Steps = []types.Step{}
	}

	stepsJSON, err := json.Marshal(rec.Solution.Steps)
	if err != nil {
		return types.Record{}, fmt.Errorf("marshaling steps: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO solutions (id, problem, source, raw_solution, final_answer, steps_json, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Problem, string(rec.Source), rec.RawSolution,
		rec.Solution.FinalAnswer, string(stepsJSON), rec.Message,
		rec.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return types.Record{}, fmt.Errorf("inserting record %s: %w", rec.ID, err)
	}
	return rec, nil
}

// Get returns the record with id.
func (s *Store) Get(ctx context.Context, id string) (types.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM solutions WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Record{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Record{}, fmt.Errorf("reading record %s: %w", id, err)
	}
	return rec, nil
}

// Lookup returns the record whose ID is prefix or starts with prefix, so
// the short IDs shown in listings can be used.
func (s *Store) Lookup(ctx context.Context, prefix string) (types.Record, error) {
	if prefix == "" {
		return types.Record{}, ErrNotFound
	}
	if rec, err := s.Get(ctx, prefix); err == nil || !errors.Is(err, ErrNotFound) {
		return rec, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM solutions WHERE id LIKE ? ESCAPE '\' LIMIT 2`,
		likeEscaper.Replace(prefix)+"%")
	if err != nil {
		return types.Record{}, fmt.Errorf("looking up %s: %w", prefix, err)
	}
	defer rows.Close()

	var found []types.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return types.Record{}, fmt.Errorf("scanning history row: %w", err)
		}
		found = append(found, rec)
	}
	if err := rows.Err(); err != nil {
		return types.Record{}, fmt.Errorf("iterating history rows: %w", err)
	}

	switch len(found) {
	case 0:
		return types.Record{}, fmt.Errorf("%s: %w", prefix, ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return types.Record{}, fmt.Errorf("%s: %w", prefix, ErrAmbiguous)
	}
}

// Delete removes the record with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM solutions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM solutions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

const recordColumns = `id, problem, source, raw_solution, final_answer, steps_json, message, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (types.Record, error) {
	var (
		rec       types.Record
		source    string
		stepsJSON string
		message   sql.NullString
		createdAt string
	)
	if err := sc.Scan(&rec.ID, &rec.Problem, &source, &rec.RawSolution,
		&rec.Solution.FinalAnswer, &stepsJSON, &message, &createdAt); err != nil {
		return types.Record{}, err
	}

	rec.Source = types.ProblemSource(source)
	rec.Message = message.String

	if err := json.Unmarshal([]byte(stepsJSON), &rec.Solution.Steps); err != nil {
		return types.Record{}, fmt.Errorf("parsing steps: %w", err)
	}
	if rec.Solution.Steps == nil {
		rec.Solution.Steps = []types.Step{}
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return types.Record{}, fmt.Errorf("parsing created_at: %w", err)
	}
	rec.CreatedAt = t
	return rec, nil
}
