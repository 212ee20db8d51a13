package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// Pool abstracts the pgxpool.Pool subset the store uses, so tests can
// substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using a pgx connection pool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore and verifies connectivity.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS lakes (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL UNIQUE,
	district          TEXT NOT NULL DEFAULT '',
	lat               DOUBLE PRECISION NOT NULL DEFAULT 0,
	lon               DOUBLE PRECISION NOT NULL DEFAULT 0,
	area_baseline     DOUBLE PRECISION NOT NULL DEFAULT 0,
	area_current      DOUBLE PRECISION NOT NULL DEFAULT 0,
	degradation_pct   DOUBLE PRECISION NOT NULL DEFAULT 0,
	population_impact DOUBLE PRECISION NOT NULL DEFAULT 0,
	flood_risk        INTEGER NOT NULL DEFAULT 0,
	pollution_index   DOUBLE PRECISION,
	encroachment_pct  DOUBLE PRECISION,
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_lakes_district ON lakes(district);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpsertLake(ctx context.Context, lake model.LakeRecord) error {
	if lake.Name == "" {
		return eris.New("postgres: lake name is required")
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO lakes (
			id, name, district, lat, lon,
			area_baseline, area_current, degradation_pct,
			population_impact, flood_risk, pollution_index, encroachment_pct,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (name) DO UPDATE SET
			district          = EXCLUDED.district,
			lat               = EXCLUDED.lat,
			lon               = EXCLUDED.lon,
			area_baseline     = EXCLUDED.area_baseline,
			area_current      = EXCLUDED.area_current,
			degradation_pct   = EXCLUDED.degradation_pct,
			population_impact = EXCLUDED.population_impact,
			flood_risk        = EXCLUDED.flood_risk,
			pollution_index   = EXCLUDED.pollution_index,
			encroachment_pct  = EXCLUDED.encroachment_pct,
			updated_at        = EXCLUDED.updated_at`,
		uuid.New().String(), lake.Name, lake.District, lake.Lat, lake.Lon,
		lake.AreaBaseline, lake.AreaCurrent, lake.DegradationPct,
		lake.PopulationImpact, lake.FloodRisk,
		optFloat(lake.PollutionIndex), optFloat(lake.EncroachmentPct),
		time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: upsert lake %s", lake.Name)
}

const pgLakeColumns = `name, district, lat, lon, area_baseline, area_current,
	degradation_pct, population_impact, flood_risk, pollution_index, encroachment_pct`

func (s *PostgresStore) GetLake(ctx context.Context, name string) (*model.LakeRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+pgLakeColumns+` FROM lakes WHERE name = $1`, name,
	)
	lake, err := scanPgLake(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrLakeNotFound, "%s", name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get lake %s", name)
	}
	return lake, nil
}

func (s *PostgresStore) ListLakes(ctx context.Context) ([]model.LakeRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+pgLakeColumns+` FROM lakes ORDER BY name`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list lakes")
	}
	defer rows.Close()

	var lakes []model.LakeRecord
	for rows.Next() {
		lake, err := scanPgLake(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan lake")
		}
		lakes = append(lakes, *lake)
	}
	return lakes, eris.Wrap(rows.Err(), "postgres: list lakes iterate")
}

func (s *PostgresStore) DeleteLake(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM lakes WHERE name = $1`, name)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete lake %s", name)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrLakeNotFound, "%s", name)
	}
	return nil
}

func (s *PostgresStore) CountLakes(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lakes`).Scan(&n)
	return n, eris.Wrap(err, "postgres: count lakes")
}

// scanPgLake reads the lake column set; pgx scans NULL into *float64
// directly.
func scanPgLake(row pgx.Row) (*model.LakeRecord, error) {
	var lake model.LakeRecord
	err := row.Scan(
		&lake.Name, &lake.District, &lake.Lat, &lake.Lon,
		&lake.AreaBaseline, &lake.AreaCurrent, &lake.DegradationPct,
		&lake.PopulationImpact, &lake.FloodRisk,
		&lake.PollutionIndex, &lake.EncroachmentPct,
	)
	if err != nil {
		return nil, err
	}
	return &lake, nil
}
