package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	newPoolFn  = pgxpool.New
	pingPoolFn = func(ctx context.Context, pool *pgxpool.Pool) error { return pool.Ping(ctx) }
)

func ConnectPostgres(url string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := newPoolFn(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pingPoolFn(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Schema creates the record tables if they do not exist yet.
const Schema = `
CREATE TABLE IF NOT EXISTS training_locations (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT,
	latitude    DOUBLE PRECISION NOT NULL,
	longitude   DOUBLE PRECISION NOT NULL,
	address     TEXT,
	type        TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS routes (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT,
	distance    DOUBLE PRECISION NOT NULL,
	user_id     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS route_coordinates (
	route_id  UUID NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
	ord       INTEGER NOT NULL,
	latitude  DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (route_id, ord)
);

CREATE TABLE IF NOT EXISTS route_times (
	id       UUID PRIMARY KEY,
	route_id UUID NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
	time     DOUBLE PRECISION NOT NULL,
	pace     DOUBLE PRECISION,
	date     TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema applies Schema.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
