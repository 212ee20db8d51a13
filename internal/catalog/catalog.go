// Package catalog supplies lake records to the scoring engine. Sources own
// all IO and randomness; the engine stays deterministic over whatever a
// source produced. Each Load returns fresh records, never shared state.
package catalog

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/neerchitra/neerchitra-cli/internal/config"
	"github.com/neerchitra/neerchitra-cli/internal/model"
	"github.com/neerchitra/neerchitra-cli/internal/store"
)

// Source names and the dispatch values accepted in config and flags.
const (
	SourceStatic    = "static"
	SourceFile      = "file"
	SourceSynthetic = "synthetic"
	SourceFTP       = "ftp"
	SourceStore     = "store"
)

// Source produces one catalog of lake records per call.
type Source interface {
	// Load returns the current catalog. Implementations must return
	// records the caller may keep and modify freely.
	Load(ctx context.Context) ([]model.LakeRecord, error)
	// Name identifies the source in logs and output headers.
	Name() string
}

// ForConfig builds the Source selected by the catalog section of the
// config. The store argument is only consulted for the "store" source and
// may be nil otherwise.
func ForConfig(cfg config.CatalogConfig, st store.Store) (Source, error) {
	switch cfg.Source {
	case SourceStatic, "":
		return NewStaticSource(), nil
	case SourceFile:
		if cfg.File == "" {
			return nil, eris.New("catalog: file source requires catalog.file (--file)")
		}
		return NewFileSource(cfg.File), nil
	case SourceSynthetic:
		return NewSyntheticSource(cfg.Seed, cfg.JitterPct), nil
	case SourceFTP:
		if cfg.FTPURL == "" {
			return nil, eris.New("catalog: ftp source requires catalog.ftp_url (--ftp-url)")
		}
		return NewFTPSource(cfg.FTPURL, time.Duration(cfg.FTPTimeoutSecs)*time.Second), nil
	case SourceStore:
		if st == nil {
			return nil, eris.New("catalog: store source requires a configured store (store.driver)")
		}
		return NewStoreSource(st), nil
	default:
		return nil, eris.Errorf("catalog: unknown source %q (known: static, file, synthetic, ftp, store)", cfg.Source)
	}
}
