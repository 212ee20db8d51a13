package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neerchitra/neerchitra-cli/internal/engine"
	"github.com/neerchitra/neerchitra-cli/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ranked queue to file formats",
	Long: `Ranks the configured catalog and writes the queue to one or more files
derived from --out: CSV, XLSX, GeoJSON, a point shapefile, or all four.

Examples:
  neerchitra export --out rankings --format csv
  neerchitra export --out rankings --format all --preset extended`,
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.String("source", "", "catalog source (default from config)")
	f.String("file", "", "catalog file path for the file source")
	f.Uint64("seed", 0, "seed for the synthetic source")
	f.String("ftp-url", "", "ftp:// URL of a CSV catalog for the ftp source")
	f.String("preset", "", "weighting preset: basic or extended (default from config)")
	f.String("out", "", "output basename (default from config)")
	f.String("format", "", "csv, xlsx, geojson, shp, or all (default from config)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catCfg := applyCatalogOverrides(cmd, cfg.Catalog)
	cfg.Catalog = catCfg
	if err := cfg.Validate("export"); err != nil {
		return err
	}

	presetName := cfg.Scoring.Preset
	if v, _ := cmd.Flags().GetString("preset"); v != "" {
		presetName = v
	}
	preset, err := engine.LookupPreset(presetName)
	if err != nil {
		return err
	}

	base := cfg.Export.OutBase
	if v, _ := cmd.Flags().GetString("out"); v != "" {
		base = v
	}
	format := cfg.Export.Format
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		format = v
	}

	records, sourceName, cleanup, err := loadRecords(ctx, catCfg)
	defer cleanup()
	if err != nil {
		return err
	}

	ranked, err := engine.Rank(records, preset)
	if err != nil {
		return err
	}

	paths, err := export.Write(ctx, format, base, ranked)
	if err != nil {
		return err
	}

	zap.L().Info("export complete",
		zap.String("source", sourceName),
		zap.String("preset", presetName),
		zap.Int("lakes", len(ranked)),
		zap.Strings("files", paths),
	)
	fmt.Printf("Exported %d lakes to %s\n", len(ranked), strings.Join(paths, ", "))
	return nil
}
