// Package store keeps trained vocabularies and a log of training runs in a
// SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a named vocabulary does not exist.
var ErrNotFound = errors.New("store: not found")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS vocabularies(
		name TEXT PRIMARY KEY,
		ts REAL NOT NULL,
		size INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS vocab_tokens(
		vocab TEXT NOT NULL,
		rank INTEGER NOT NULL,
		token TEXT NOT NULL,
		PRIMARY KEY(vocab, rank)
	)`,
	`CREATE TABLE IF NOT EXISTS runs(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts REAL NOT NULL,
		input TEXT NOT NULL,
		vocab TEXT NOT NULL,
		target_size INTEGER NOT NULL,
		vocab_size INTEGER NOT NULL,
		merges INTEGER NOT NULL,
		words INTEGER NOT NULL,
		distinct_words INTEGER NOT NULL,
		merge_mode TEXT NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		note TEXT
	)`,
}

// Store wraps the database handle.
type Store struct {
	db *sql.DB
}

// Run is one recorded training run.
type Run struct {
	ID            int64
	Time          time.Time
	Input         string
	Vocab         string
	TargetSize    int
	VocabSize     int
	Merges        int
	Words         int
	DistinctWords int
	MergeMode     string
	Elapsed       time.Duration
	Note          string
}

// Open opens (creating if needed) the database at path and its tables.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: init %s: %w", path, err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveVocabulary stores tokens under name, replacing any previous version.
func (s *Store) SaveVocabulary(ctx context.Context, name string, tokens []string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM vocab_tokens WHERE vocab = ?", name); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO vocabularies(name, ts, size) VALUES(?,?,?)",
		name, unixSeconds(time.Now()), len(tokens)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO vocab_tokens(vocab, rank, token) VALUES(?,?,?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, tok := range tokens {
		if _, err = stmt.ExecContext(ctx, name, i, tok); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadVocabulary returns the tokens stored under name in their saved order.
func (s *Store) LoadVocabulary(ctx context.Context, name string) ([]string, error) {
	var size int
	err := s.db.QueryRowContext(ctx, "SELECT size FROM vocabularies WHERE name = ?", name).Scan(&size)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT token FROM vocab_tokens WHERE vocab = ? ORDER BY rank", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tokens := make([]string, 0, size)
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, rows.Err()
}

// Vocabularies lists stored vocabulary names.
func (s *Store) Vocabularies(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM vocabularies ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// LogRun records a training run and returns its id. A zero Time means now.
func (s *Store) LogRun(ctx context.Context, r Run) (int64, error) {
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO runs(ts, input, vocab, target_size, vocab_size,
		merges, words, distinct_words, merge_mode, elapsed_ms, note) VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		unixSeconds(r.Time), r.Input, r.Vocab, r.TargetSize, r.VocabSize,
		r.Merges, r.Words, r.DistinctWords, r.MergeMode, r.Elapsed.Milliseconds(), r.Note)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, ts, input, vocab, target_size, vocab_size,
		merges, words, distinct_words, merge_mode, elapsed_ms, COALESCE(note, '')
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			ts      float64
			elapsed int64
		)
		if err := rows.Scan(&r.ID, &ts, &r.Input, &r.Vocab, &r.TargetSize, &r.VocabSize,
			&r.Merges, &r.Words, &r.DistinctWords, &r.MergeMode, &elapsed, &r.Note); err != nil {
			return nil, err
		}
		r.Time = time.UnixMilli(int64(math.Round(ts * 1000)))
		r.Elapsed = time.Duration(elapsed) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000.0
}
