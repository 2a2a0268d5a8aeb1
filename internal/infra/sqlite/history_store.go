// Package sqlite persists result history in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mbti-quiz-service/internal/domain"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// HistoryStore keeps results ordered by insertion; an upsert keeps the original position.
type HistoryStore struct {
	db *sql.DB
}

// Open creates the database file and schema if needed.
func Open(path string) (*HistoryStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlite: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			type       TEXT NOT NULL,
			tier       TEXT NOT NULL,
			scores     TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migration: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func (s *HistoryStore) Append(ctx context.Context, result domain.Result) error {
	scores, err := json.Marshal(result.Scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (id, created_at, type, tier, scores)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			type       = excluded.type,
			tier       = excluded.tier,
			scores     = excluded.scores`,
		result.ID, result.CreatedAt.UTC().Format(time.RFC3339Nano), result.Type, string(result.Tier), string(scores))
	if err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

func (s *HistoryStore) LoadAll(ctx context.Context) ([]domain.Result, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, created_at, type, tier, scores FROM results ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	defer rows.Close()

	var results []domain.Result
	for rows.Next() {
		var (
			r         domain.Result
			createdAt string
			tier      string
			scores    string
		)
		if err := rows.Scan(&r.ID, &createdAt, &r.Type, &tier, &scores); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		if err := json.Unmarshal([]byte(scores), &r.Scores); err != nil {
			return nil, fmt.Errorf("decode scores: %w", err)
		}
		r.Tier = domain.Tier(tier)
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM results`); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	return nil
}
