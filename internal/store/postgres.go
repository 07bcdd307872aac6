package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS rankboard_timings (
	id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	run_id          BIGINT NOT NULL,
	method          TEXT NOT NULL,
	processing_time TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS rankboard_timings_run_idx ON rankboard_timings (run_id, created_at DESC);`

// EnsureSchema creates the timings table if it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const timingColumns = `id, run_id, method, processing_time, created_at`

func (s *PostgresStore) RecordTiming(ctx context.Context, t *Timing) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO rankboard_timings (run_id, method, processing_time)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		t.RunID, t.Method, t.ProcessingTime,
	).Scan(&t.ID, &t.CreatedAt)
}

func (s *PostgresStore) LatestTiming(ctx context.Context, runID int64) (*Timing, error) {
	t := &Timing{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+timingColumns+`
		FROM rankboard_timings WHERE run_id = $1
		ORDER BY created_at DESC LIMIT 1`, runID,
	).Scan(&t.ID, &t.RunID, &t.Method, &t.ProcessingTime, &t.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *PostgresStore) ListTimings(ctx context.Context, runID int64) ([]*Timing, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+timingColumns+`
		FROM rankboard_timings WHERE run_id = $1
		ORDER BY created_at ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	timings := []*Timing{}
	for rows.Next() {
		t := &Timing{}
		if err := rows.Scan(&t.ID, &t.RunID, &t.Method, &t.ProcessingTime, &t.CreatedAt); err != nil {
			return nil, err
		}
		timings = append(timings, t)
	}
	return timings, rows.Err()
}

func (s *PostgresStore) ClearTimings(ctx context.Context, runID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM rankboard_timings WHERE run_id = $1`, runID)
	return err
}
