// Package store handles SQLite persistence of local session history.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/typelab/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for local typing results.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			net_wpm INTEGER NOT NULL,
			raw_wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			total_chars INTEGER NOT NULL,
			correct_chars INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			passage TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_ended_at ON results(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertResult stores one finished session.
func (s *Store) InsertResult(ctx context.Context, res model.SessionResult) (int64, error) {
	out, err := s.db.ExecContext(ctx,
		`INSERT INTO results (started_at, ended_at, net_wpm, raw_wpm, accuracy, total_chars, correct_chars, duration_ms, passage)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.StartedAt.Format(time.RFC3339Nano),
		res.CompletedAt.Format(time.RFC3339Nano),
		res.NetWPM,
		res.RawWPM,
		res.Accuracy,
		res.TotalChars,
		res.CorrectCh,
		res.DurationMs,
		res.Passage,
	)
	if err != nil {
		return 0, err
	}
	return out.LastInsertId()
}

// ListResults returns stored results in chronological order. A positive limit
// keeps only the most recent entries.
func (s *Store) ListResults(ctx context.Context, limit int) ([]model.HistoryResult, error) {
	query := `SELECT id, started_at, ended_at, net_wpm, raw_wpm, accuracy, total_chars, correct_chars, duration_ms, passage
		FROM results ORDER BY ended_at ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.HistoryResult
	for rows.Next() {
		var res model.HistoryResult
		var startedAt, endedAt string
		if err := rows.Scan(&res.ResultID, &startedAt, &endedAt, &res.NetWPM, &res.RawWPM, &res.Accuracy,
			&res.TotalChars, &res.CorrectChars, &res.DurationMs, &res.Passage); err != nil {
			return nil, err
		}
		if res.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if res.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if limit > 0 && len(results) > limit {
		results = results[len(results)-limit:]
	}
	return results, nil
}
