package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/neerchitra/neerchitra-cli/internal/engine"
	"github.com/neerchitra/neerchitra-cli/internal/export"
	"github.com/neerchitra/neerchitra-cli/internal/model"
	"github.com/neerchitra/neerchitra-cli/internal/weather"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank lakes into a restoration priority queue",
	Long: `Loads lake records from the configured catalog source, scores each one
under the selected weighting preset, and prints the restoration queue in
priority order with a summary block.

Presets pair a weighting scheme with a classification scheme:
  basic     degradation/population/flood weighting, 3-tier statuses
  extended  adds pollution and encroachment, 4-tier statuses

Examples:
  # Rank the built-in catalog with the basic preset
  neerchitra rank

  # Extended preset over a CSV catalog, exported to CSV
  neerchitra rank --source file --file lakes.csv --preset extended --format csv --output queue.csv

  # Seeded synthetic catalog with a weather annotation
  neerchitra rank --source synthetic --seed 7 --weather`,
	RunE: runRank,
}

func init() {
	f := rankCmd.Flags()
	f.String("source", "", "catalog source: static, file, synthetic, ftp, store (default from config)")
	f.String("file", "", "catalog file path for the file source (csv, yaml, or xlsx)")
	f.Uint64("seed", 0, "seed for the synthetic source")
	f.String("ftp-url", "", "ftp:// URL of a CSV catalog for the ftp source")
	f.String("preset", "", "weighting preset: basic or extended (default from config)")
	f.String("format", "table", "output format: table, csv, or json")
	f.String("output", "", "output file path (default: stdout)")
	f.Bool("weather", false, "append current conditions for the configured city")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catCfg := applyCatalogOverrides(cmd, cfg.Catalog)
	cfg.Catalog = catCfg
	if err := cfg.Validate("rank"); err != nil {
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

	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "csv" && format != "json" {
		return eris.Errorf("rank: --format must be table, csv, or json (got %q)", format)
	}

	log := zap.L().With(zap.String("command", "rank"))

	records, sourceName, cleanup, err := loadRecords(ctx, catCfg)
	defer cleanup()
	if err != nil {
		return err
	}
	log.Info("catalog loaded",
		zap.String("source", sourceName),
		zap.Int("lakes", len(records)),
	)

	ranked, err := engine.Rank(records, preset)
	if err != nil {
		return err
	}
	summary, err := engine.Summarize(records, ranked, presetName)
	if err != nil {
		return err
	}

	w := os.Stdout
	if outputPath, _ := cmd.Flags().GetString("output"); outputPath != "" {
		w, err = os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "rank: create output file %s", outputPath)
		}
		defer w.Close() //nolint:errcheck
	}

	switch format {
	case "csv":
		if err := export.WriteCSV(w, ranked); err != nil {
			return err
		}
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{"rankings": ranked, "summary": summary}); err != nil {
			return eris.Wrap(err, "rank: encode json")
		}
	default:
		writeRankTable(w, ranked)
		printRankSummary(w, summary)
	}

	if withWeather, _ := cmd.Flags().GetBool("weather"); withWeather && format == "table" {
		printWeatherLine(ctx, w)
	}

	return nil
}

func writeRankTable(w *os.File, ranked []model.ScoredLake) {
	p := message.NewPrinter(language.English)

	fmt.Fprintf(w, "%-4s %-24s %-14s %8s %12s %6s %7s %-8s\n",
		"#", "Lake", "District", "Degr%", "People", "Flood", "Score", "Status")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for i, l := range ranked {
		name := l.Name
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		fmt.Fprintf(w, "%-4d %-24s %-14s %8.1f %12s %6d %7.2f %-8s\n",
			i+1, name, l.District, l.DegradationPct,
			p.Sprintf("%d", int64(l.PopulationImpact)),
			l.FloodRisk, l.PriorityScore, l.Status)
	}
}

func printRankSummary(w *os.File, s engine.Summary) {
	fmt.Fprintf(w, "\n--- Summary (%s preset) ---\n", s.Preset)
	fmt.Fprintf(w, "Lakes assessed:       %d\n", s.LakeCount)
	fmt.Fprintf(w, "Average degradation:  %.1f%%\n", s.AverageDegradation)
	fmt.Fprintf(w, "Total area lost:      %.1f ha\n", s.TotalAreaLost)
	fmt.Fprintf(w, "Status counts:        %d Critical / %d High / %d Moderate / %d Low\n",
		s.StatusCounts[model.StatusCritical],
		s.StatusCounts[model.StatusHigh],
		s.StatusCounts[model.StatusModerate],
		s.StatusCounts[model.StatusLow],
	)
	if s.TopLake != "" {
		fmt.Fprintf(w, "First in queue:       %s (%.2f)\n", s.TopLake, s.TopScore)
	}
}

func printWeatherLine(ctx context.Context, w *os.File) {
	client := weather.NewHTTPClient(cfg.Weather)
	obs, err := client.Current(ctx, cfg.Weather.City)
	if err != nil {
		zap.L().Warn("weather annotation failed", zap.Error(err))
		return
	}
	suffix := ""
	if obs.Fallback {
		suffix = " [fallback data]"
	}
	fmt.Fprintf(w, "\nCurrent conditions in %s: %.1f°C, %d%% humidity, %.1f mm rain, %s%s\n",
		obs.City, obs.TempC, obs.Humidity, obs.RainfallMM, obs.Condition, suffix)
}
