package catalog

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/neerchitra/neerchitra-cli/internal/model"
	"github.com/neerchitra/neerchitra-cli/internal/store"
)

// StoreSource reads the catalog previously seeded or imported into the
// configured store.
type StoreSource struct {
	st store.Store
}

// NewStoreSource wraps a store as a catalog source.
func NewStoreSource(st store.Store) *StoreSource { return &StoreSource{st: st} }

// Name implements Source.
func (s *StoreSource) Name() string { return SourceStore }

// Load implements Source.
func (s *StoreSource) Load(ctx context.Context) ([]model.LakeRecord, error) {
	lakes, err := s.st.ListLakes(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: list lakes from store")
	}
	if len(lakes) == 0 {
		return nil, eris.New("catalog: store is empty; run `neerchitra catalog seed` or `catalog import` first")
	}
	return lakes, nil
}
