package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresJournal persists operation entries in a Postgres table.
type PostgresJournal struct {
	db *sql.DB
}

func NewPostgres(connStr string, maxOpen, maxIdle int) (*PostgresJournal, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS gateway_journal (
			id BIGSERIAL PRIMARY KEY,
			ts TIMESTAMPTZ NOT NULL,
			op TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			status INT NOT NULL,
			err_text TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_gateway_journal_op_ts ON gateway_journal (op, ts);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal table: %w", err)
	}

	return &PostgresJournal{db: db}, nil
}

func (p *PostgresJournal) LogOperation(ctx context.Context, e Entry) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO gateway_journal (ts, op, detail, status, err_text) VALUES ($1, $2, $3, $4, $5)`,
		e.Time.UTC(), e.Op, e.Detail, e.Status, e.ErrText,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}

func (p *PostgresJournal) Operations(ctx context.Context, op string, start, end time.Time) ([]Entry, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT ts, op, detail, status, err_text FROM gateway_journal
		 WHERE ($1 = '' OR op = $1) AND ts >= $2 AND ts <= $3 ORDER BY ts`,
		op, start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Time, &e.Op, &e.Detail, &e.Status, &e.ErrText); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *PostgresJournal) Close() error { return p.db.Close() }
