package jobstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps render records in Postgres. Unlike the memory and
// redis backends it doubles as a render history: records are kept until
// deleted explicitly.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const createRendersTable = `
CREATE TABLE IF NOT EXISTS local_renders (
    render_id   TEXT PRIMARY KEY,
    composition TEXT NOT NULL,
    output_url  TEXT NOT NULL,
    output_path TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, createRendersTable); err != nil {
		return nil, fmt.Errorf("ensure local_renders table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Put(ctx context.Context, rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO local_renders (render_id, composition, output_url, output_path, created_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (render_id) DO UPDATE
		 SET composition=EXCLUDED.composition, output_url=EXCLUDED.output_url, output_path=EXCLUDED.output_path`,
		rec.RenderID, rec.Composition, rec.OutputURL, rec.OutputPath, rec.CreatedAt,
	)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, renderID string) (Record, bool, error) {
	var rec Record
	err := s.pool.QueryRow(ctx,
		`SELECT render_id, composition, output_url, output_path, created_at
		 FROM local_renders WHERE render_id=$1`,
		renderID,
	).Scan(&rec.RenderID, &rec.Composition, &rec.OutputURL, &rec.OutputPath, &rec.CreatedAt)
	if err == pgx.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

func (s *PostgresStore) Delete(ctx context.Context, renderID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM local_renders WHERE render_id=$1`, renderID)
	return err
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
