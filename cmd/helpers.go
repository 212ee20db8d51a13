package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/neerchitra/neerchitra-cli/internal/catalog"
	"github.com/neerchitra/neerchitra-cli/internal/config"
	"github.com/neerchitra/neerchitra-cli/internal/model"
	"github.com/neerchitra/neerchitra-cli/internal/store"
)

// applyCatalogOverrides returns a copy of the base catalog config with CLI
// flag overrides applied.
func applyCatalogOverrides(cmd *cobra.Command, base config.CatalogConfig) config.CatalogConfig {
	c := base

	if v, _ := cmd.Flags().GetString("source"); v != "" {
		c.Source = v
	}
	if v, _ := cmd.Flags().GetString("file"); v != "" {
		c.File = v
	}
	if cmd.Flags().Changed("seed") {
		v, _ := cmd.Flags().GetUint64("seed")
		c.Seed = v
	}
	if v, _ := cmd.Flags().GetString("ftp-url"); v != "" {
		c.FTPURL = v
	}

	return c
}

// openStore opens the configured catalog store and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// loadRecords resolves the catalog source for the given config and loads
// the records. The returned cleanup closes any store the source opened.
func loadRecords(ctx context.Context, catCfg config.CatalogConfig) ([]model.LakeRecord, string, func(), error) {
	cleanup := func() {}

	var st store.Store
	if catCfg.Source == catalog.SourceStore {
		s, err := openStore(ctx)
		if err != nil {
			return nil, "", cleanup, err
		}
		st = s
		cleanup = func() { _ = s.Close() }
	}

	src, err := catalog.ForConfig(catCfg, st)
	if err != nil {
		return nil, "", cleanup, err
	}

	records, err := src.Load(ctx)
	if err != nil {
		return nil, src.Name(), cleanup, err
	}
	return records, src.Name(), cleanup, nil
}
