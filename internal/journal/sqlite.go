package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// SQLiteJournal is the default file-backed journal for deployments without a
// Postgres instance.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS gateway_journal (
			id INTEGER PRIMARY KEY,
			ts INTEGER NOT NULL,
			op TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			status INTEGER NOT NULL,
			err_text TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal table: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

func (s *SQLiteJournal) LogOperation(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO gateway_journal (ts, op, detail, status, err_text) VALUES (?, ?, ?, ?, ?)`,
		e.Time.UTC().UnixNano(), e.Op, e.Detail, e.Status, e.ErrText,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}

func (s *SQLiteJournal) Operations(ctx context.Context, op string, start, end time.Time) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, op, detail, status, err_text FROM gateway_journal
		 WHERE (? = '' OR op = ?) AND ts >= ? AND ts <= ? ORDER BY ts`,
		op, op, start.UTC().UnixNano(), end.UTC().UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(&ts, &e.Op, &e.Detail, &e.Status, &e.ErrText); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.Time = time.Unix(0, ts).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteJournal) Close() error { return s.db.Close() }
