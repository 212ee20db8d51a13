package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neerchitra/neerchitra-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "neerchitra",
	Short: "Water-body degradation intelligence for Tamil Nadu",
	Long: "Loads a catalog of lake records, derives a restoration priority score per lake,\n" +
		"and renders the ranked restoration queue as tables, exports, or an HTTP API.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var (
			c   *config.Config
			err error
		)
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			c, err = config.LoadFile(path)
		} else {
			c, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Log.Level = lvl
		}
		if format, _ := cmd.Flags().GetString("log-format"); format != "" {
			cfg.Log.Format = format
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file path (default: ./neerchitra.yaml, $HOME/.neerchitra)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (console or json)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
