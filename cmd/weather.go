package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neerchitra/neerchitra-cli/internal/weather"
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Check current conditions for one or more cities",
	Long: `Best-effort lookup against the configured weather API. Without an API
key, or when the API cannot be reached, documented Chennai-region fallback
constants are printed and marked as such.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cities := []string{cfg.Weather.City}
		if v, _ := cmd.Flags().GetString("city"); v != "" {
			cities = splitAndTrim(v)
		}

		client := weather.NewHTTPClient(cfg.Weather)
		observations, err := client.Cities(ctx, cities)
		if err != nil {
			return err
		}

		for _, obs := range observations {
			suffix := ""
			if obs.Fallback {
				suffix = " [fallback data]"
			}
			fmt.Printf("%-16s %5.1f°C  %3d%% humidity  %5.1f mm rain  %s%s\n",
				obs.City, obs.TempC, obs.Humidity, obs.RainfallMM, obs.Condition, suffix)
		}
		return nil
	},
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func init() {
	weatherCmd.Flags().String("city", "", "comma-separated city names (default from config)")
	rootCmd.AddCommand(weatherCmd)
}
