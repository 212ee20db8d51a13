package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS lakes (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL UNIQUE,
	district          TEXT NOT NULL DEFAULT '',
	lat               REAL NOT NULL DEFAULT 0,
	lon               REAL NOT NULL DEFAULT 0,
	area_baseline     REAL NOT NULL DEFAULT 0,
	area_current      REAL NOT NULL DEFAULT 0,
	degradation_pct   REAL NOT NULL DEFAULT 0,
	population_impact REAL NOT NULL DEFAULT 0,
	flood_risk        INTEGER NOT NULL DEFAULT 0,
	pollution_index   REAL,
	encroachment_pct  REAL,
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_lakes_district ON lakes(district);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertLake(ctx context.Context, lake model.LakeRecord) error {
	if lake.Name == "" {
		return eris.New("sqlite: lake name is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lakes (
			id, name, district, lat, lon,
			area_baseline, area_current, degradation_pct,
			population_impact, flood_risk, pollution_index, encroachment_pct,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			district          = excluded.district,
			lat               = excluded.lat,
			lon               = excluded.lon,
			area_baseline     = excluded.area_baseline,
			area_current      = excluded.area_current,
			degradation_pct   = excluded.degradation_pct,
			population_impact = excluded.population_impact,
			flood_risk        = excluded.flood_risk,
			pollution_index   = excluded.pollution_index,
			encroachment_pct  = excluded.encroachment_pct,
			updated_at        = excluded.updated_at`,
		uuid.New().String(), lake.Name, lake.District, lake.Lat, lake.Lon,
		lake.AreaBaseline, lake.AreaCurrent, lake.DegradationPct,
		lake.PopulationImpact, lake.FloodRisk,
		optFloat(lake.PollutionIndex), optFloat(lake.EncroachmentPct),
		time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: upsert lake %s", lake.Name)
}

const sqliteLakeColumns = `name, district, lat, lon, area_baseline, area_current,
	degradation_pct, population_impact, flood_risk, pollution_index, encroachment_pct`

func (s *SQLiteStore) GetLake(ctx context.Context, name string) (*model.LakeRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteLakeColumns+` FROM lakes WHERE name = ?`, name,
	)
	lake, err := scanLake(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrLakeNotFound, "%s", name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get lake %s", name)
	}
	return lake, nil
}

func (s *SQLiteStore) ListLakes(ctx context.Context) ([]model.LakeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteLakeColumns+` FROM lakes ORDER BY name`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list lakes")
	}
	defer rows.Close()

	var lakes []model.LakeRecord
	for rows.Next() {
		lake, err := scanLake(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lake")
		}
		lakes = append(lakes, *lake)
	}
	return lakes, eris.Wrap(rows.Err(), "sqlite: list lakes iterate")
}

func (s *SQLiteStore) DeleteLake(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lakes WHERE name = ?`, name)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete lake %s", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrLakeNotFound, "%s", name)
	}
	return nil
}

func (s *SQLiteStore) CountLakes(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lakes`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count lakes")
}

type scannable interface {
	Scan(dest ...any) error
}

// scanLake reads the lake column set shared by GetLake and ListLakes.
func scanLake(row scannable) (*model.LakeRecord, error) {
	var (
		lake      model.LakeRecord
		pollution sql.NullFloat64
		encroach  sql.NullFloat64
	)
	err := row.Scan(
		&lake.Name, &lake.District, &lake.Lat, &lake.Lon,
		&lake.AreaBaseline, &lake.AreaCurrent, &lake.DegradationPct,
		&lake.PopulationImpact, &lake.FloodRisk, &pollution, &encroach,
	)
	if err != nil {
		return nil, err
	}
	if pollution.Valid {
		lake.PollutionIndex = &pollution.Float64
	}
	if encroach.Valid {
		lake.EncroachmentPct = &encroach.Float64
	}
	return &lake, nil
}

// optFloat converts an optional attribute to a nullable SQL value.
func optFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
