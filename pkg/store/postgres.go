package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tableflip.dev/daylog/pkg/activity"
)

const schema = `CREATE TABLE IF NOT EXISTS activities (
    seq        BIGSERIAL,
    id         TEXT PRIMARY KEY,
    day        DATE NOT NULL,
    work       DOUBLE PRECISION NOT NULL,
    leisure    DOUBLE PRECISION NOT NULL,
    sleep      DOUBLE PRECISION NOT NULL,
    exercise   DOUBLE PRECISION NOT NULL,
    summary    TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS activities_day_idx ON activities (day);`

// Postgres stores activities in a single PostgreSQL table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to url and ensures the schema exists.
func NewPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("store: connect postgres: %w", err)
	}
	p := NewPostgresFromPool(pool)
	if err := p.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgresFromPool wraps an existing pool. The caller runs Migrate.
func NewPostgresFromPool(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the activities table if it is missing.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

func (p *Postgres) List(ctx context.Context, skip, limit int) ([]activity.Record, error) {
	if skip < 0 {
		skip = 0
	}
	query := `SELECT id, day, work, leisure, sleep, exercise, summary FROM activities ORDER BY seq OFFSET $1`
	args := []any{skip}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []activity.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) Get(ctx context.Context, id activity.ID) (activity.Record, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, day, work, leisure, sleep, exercise, summary FROM activities WHERE id=$1`, string(id))
	r, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return activity.Record{}, ErrNotFound
		}
		return activity.Record{}, err
	}
	return r, nil
}

func (p *Postgres) Insert(ctx context.Context, r activity.Record) error {
	if r.ID == "" {
		return errors.New("store: record id required")
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO activities (id, day, work, leisure, sleep, exercise, summary) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		string(r.ID), r.Date.Time, r.Work, r.Leisure, r.Sleep, r.Exercise, r.Summary,
	)
	return err
}

func (p *Postgres) Update(ctx context.Context, r activity.Record) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE activities SET day=$2, work=$3, leisure=$4, sleep=$5, exercise=$6, summary=$7 WHERE id=$1`,
		string(r.ID), r.Date.Time, r.Work, r.Leisure, r.Sleep, r.Exercise, r.Summary,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, id activity.ID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM activities WHERE id=$1`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func scanRecord(row pgx.Row) (activity.Record, error) {
	var (
		r   activity.Record
		id  string
		day time.Time
	)
	if err := row.Scan(&id, &day, &r.Work, &r.Leisure, &r.Sleep, &r.Exercise, &r.Summary); err != nil {
		return activity.Record{}, err
	}
	r.ID = activity.ID(id)
	r.Date = activity.DateOf(day)
	return r, nil
}
