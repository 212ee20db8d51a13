package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neerchitra/neerchitra-cli/internal/advisor"
	"github.com/neerchitra/neerchitra-cli/internal/engine"
)

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Print a restoration advisory brief for the ranked queue",
	Long: `Ranks the configured catalog and renders a short advisory narrative:
which lakes need intervention first and why. With an Anthropic API key the
brief is model-written; without one a deterministic offline template is
rendered from the same figures.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("advise"); err != nil {
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

		records, _, cleanup, err := loadRecords(ctx, cfg.Catalog)
		defer cleanup()
		if err != nil {
			return err
		}

		ranked, err := engine.Rank(records, preset)
		if err != nil {
			return err
		}
		summary, err := engine.Summarize(records, ranked, presetName)
		if err != nil {
			return err
		}

		brief, err := advisor.New(cfg.Advisor).Brief(ctx, ranked, summary)
		if err != nil {
			return err
		}

		fmt.Println(brief.Text)
		if brief.Offline {
			fmt.Println("(offline template; set NEERCHITRA_ADVISOR_API_KEY for a model-written brief)")
		}
		return nil
	},
}

func init() {
	adviseCmd.Flags().String("preset", "", "weighting preset (default from config)")
	rootCmd.AddCommand(adviseCmd)
}
