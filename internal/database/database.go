package database

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(dsn string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	db, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	const enablePgcrypto = `CREATE EXTENSION IF NOT EXISTS pgcrypto;`

	const playersTable = `
CREATE TABLE IF NOT EXISTS players (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

	const matchesTable = `
CREATE TABLE IF NOT EXISTS matches (
    id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    home_player_id  UUID NOT NULL REFERENCES players(id) ON DELETE RESTRICT,
    away_player_id  UUID NOT NULL REFERENCES players(id) ON DELETE RESTRICT,
    best_of_sets    INT NOT NULL,
    best_of_legs    INT NOT NULL,
    starting_score  INT NOT NULL DEFAULT 501,
    double_out      BOOLEAN NOT NULL DEFAULT TRUE,
    alternate_start BOOLEAN NOT NULL DEFAULT FALSE,
    status          TEXT NOT NULL DEFAULT 'scheduled',
    home_sets       INT NOT NULL DEFAULT 0,
    away_sets       INT NOT NULL DEFAULT 0,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    finished_at     TIMESTAMPTZ
);
`

	const setsTable = `
CREATE TABLE IF NOT EXISTS sets (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    match_id   UUID NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
    set_no     INT NOT NULL,
    home_legs  INT NOT NULL DEFAULT 0,
    away_legs  INT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (match_id, set_no)
);
`

	const legsTable = `
CREATE TABLE IF NOT EXISTS legs (
    id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    set_id         UUID NOT NULL REFERENCES sets(id) ON DELETE CASCADE,
    leg_no         INT NOT NULL,
    starting_score INT NOT NULL,
    home_player_id UUID NOT NULL REFERENCES players(id) ON DELETE RESTRICT,
    away_player_id UUID NOT NULL REFERENCES players(id) ON DELETE RESTRICT,
    starts_home    BOOLEAN NOT NULL DEFAULT TRUE,
    winner_id      UUID REFERENCES players(id),
    total_darts    INT,
    checkout_score INT,
    started_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    finished_at    TIMESTAMPTZ,
    UNIQUE (set_id, leg_no)
);
`

	const throwsTable = `
CREATE TABLE IF NOT EXISTS throws (
    id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    seq         BIGSERIAL,
    leg_id      UUID NOT NULL REFERENCES legs(id) ON DELETE CASCADE,
    player_id   UUID NOT NULL REFERENCES players(id) ON DELETE RESTRICT,
    throw_no    INT NOT NULL,
    d1_mult     INT NOT NULL,
    d1_seg      INT NOT NULL,
    d2_mult     INT NOT NULL,
    d2_seg      INT NOT NULL,
    d3_mult     INT NOT NULL,
    d3_seg      INT NOT NULL,
    throw_total INT NOT NULL,
    is_bust     BOOLEAN NOT NULL DEFAULT FALSE,
    is_checkout BOOLEAN NOT NULL DEFAULT FALSE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

	const throwsIndex = `
CREATE INDEX IF NOT EXISTS idx_throws_leg_order ON throws (leg_id, seq);
`

	for _, stmt := range []string{
		enablePgcrypto,
		playersTable,
		matchesTable,
		setsTable,
		legsTable,
		throwsTable,
		throwsIndex,
	} {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	log.Println("scoring-api migrations applied")
	return nil
}
