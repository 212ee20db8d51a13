package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neerchitra/neerchitra-cli/internal/engine"
	"github.com/neerchitra/neerchitra-cli/internal/model"
	"github.com/neerchitra/neerchitra-cli/internal/publish"
	"github.com/neerchitra/neerchitra-cli/pkg/notion"
	"github.com/neerchitra/neerchitra-cli/pkg/salesforce"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Push the ranked queue to a collaboration tool",
}

var publishNotionCmd = &cobra.Command{
	Use:   "notion",
	Short: "Create one Notion page per ranked lake",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("publish-notion"); err != nil {
			return err
		}

		ranked, err := rankForPublish(ctx, cmd)
		if err != nil {
			return err
		}

		client := notion.NewClient(cfg.Notion.Token)
		publisher := publish.NewNotionPublisher(client, cfg.Notion.DatabaseID)

		n, err := publisher.Publish(ctx, ranked)
		if err != nil {
			return err
		}
		fmt.Printf("Published %d lakes to Notion\n", n)
		return nil
	},
}

var publishSalesforceCmd = &cobra.Command{
	Use:   "salesforce",
	Short: "Open restoration Cases for lakes at or above the severity cutoff",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("publish-salesforce"); err != nil {
			return err
		}

		ranked, err := rankForPublish(ctx, cmd)
		if err != nil {
			return err
		}

		client, err := salesforce.NewJWTClient(
			cfg.Salesforce.Domain,
			cfg.Salesforce.ConsumerKey,
			cfg.Salesforce.Username,
			cfg.Salesforce.KeyPath,
		)
		if err != nil {
			return err
		}

		cutoff := model.Status(cfg.Salesforce.SeverityCutoff)
		if v, _ := cmd.Flags().GetString("cutoff"); v != "" {
			cutoff = model.Status(v)
		}
		publisher, err := publish.NewSalesforcePublisher(client, cutoff)
		if err != nil {
			return err
		}

		n, err := publisher.Publish(ctx, ranked)
		if err != nil {
			return err
		}
		fmt.Printf("Opened %d restoration cases in Salesforce\n", n)
		return nil
	},
}

// rankForPublish ranks the configured catalog under the configured or
// flag-selected preset.
func rankForPublish(ctx context.Context, cmd *cobra.Command) ([]model.ScoredLake, error) {
	presetName := cfg.Scoring.Preset
	if v, _ := cmd.Flags().GetString("preset"); v != "" {
		presetName = v
	}
	preset, err := engine.LookupPreset(presetName)
	if err != nil {
		return nil, err
	}

	records, _, cleanup, err := loadRecords(ctx, cfg.Catalog)
	defer cleanup()
	if err != nil {
		return nil, err
	}

	return engine.Rank(records, preset)
}

func init() {
	publishNotionCmd.Flags().String("preset", "", "weighting preset (default from config)")
	publishSalesforceCmd.Flags().String("preset", "", "weighting preset (default from config)")
	publishSalesforceCmd.Flags().String("cutoff", "", "severity cutoff: Critical, High, Moderate, or Low (default from config)")

	publishCmd.AddCommand(publishNotionCmd, publishSalesforceCmd)
	rootCmd.AddCommand(publishCmd)
}
