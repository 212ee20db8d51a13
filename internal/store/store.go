// Package store persists the lake catalog that scoring runs read from.
// Scored results are never written back; every ranking is recomputed from
// the catalog, so the store holds input records only.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// ErrLakeNotFound is returned by lookups and deletes that match no lake.
var ErrLakeNotFound = eris.New("store: lake not found")

// Store defines catalog persistence. Lakes are keyed by name, unique
// within the catalog.
type Store interface {
	Migrate(ctx context.Context) error
	UpsertLake(ctx context.Context, lake model.LakeRecord) error
	GetLake(ctx context.Context, name string) (*model.LakeRecord, error)
	ListLakes(ctx context.Context) ([]model.LakeRecord, error)
	DeleteLake(ctx context.Context, name string) error
	CountLakes(ctx context.Context) (int, error)
	Close() error
}

// Open builds the store for the configured driver and runs migrations.
func Open(ctx context.Context, driver string, dsn string) (Store, error) {
	var (
		st  Store
		err error
	)
	switch driver {
	case "sqlite", "":
		if dsn == "" {
			dsn = "neerchitra.db"
		}
		st, err = NewSQLite(dsn)
	case "postgres":
		if dsn == "" {
			return nil, eris.New("store: postgres driver requires store.dsn")
		}
		st, err = NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q (known: sqlite, postgres)", driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}
