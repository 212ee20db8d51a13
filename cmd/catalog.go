package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neerchitra/neerchitra-cli/internal/catalog"
	"github.com/neerchitra/neerchitra-cli/internal/model"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the persisted lake catalog",
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the built-in Tamil Nadu catalog to the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("store"); err != nil {
			return err
		}

		records, err := catalog.NewStaticSource().Load(ctx)
		if err != nil {
			return err
		}
		return upsertAll(cmd, records)
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a catalog file (csv, yaml, or xlsx) into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("store"); err != nil {
			return err
		}

		records, err := catalog.NewFileSource(args[0]).Load(cmd.Context())
		if err != nil {
			return err
		}
		return upsertAll(cmd, records)
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List lakes currently in the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("store"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		lakes, err := st.ListLakes(ctx)
		if err != nil {
			return err
		}
		if len(lakes) == 0 {
			fmt.Println("Store is empty. Run 'neerchitra catalog seed' first.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-24s %-14s %12s %12s %8s %6s\n",
			"Lake", "District", "Baseline ha", "Current ha", "Degr%", "Flood")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 82))
		for _, l := range lakes {
			fmt.Fprintf(os.Stdout, "%-24s %-14s %12.1f %12.1f %8.1f %6d\n",
				l.Name, l.District, l.AreaBaseline, l.AreaCurrent, l.DegradationPct, l.FloodRisk)
		}
		return nil
	},
}

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove one lake from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("store"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteLake(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %q from the catalog store\n", args[0])
		return nil
	},
}

// upsertAll writes every record to the store inside one command run.
func upsertAll(cmd *cobra.Command, records []model.LakeRecord) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	for _, rec := range records {
		if err := st.UpsertLake(ctx, rec); err != nil {
			return err
		}
	}

	zap.L().Info("catalog persisted",
		zap.Int("lakes", len(records)),
		zap.String("driver", cfg.Store.Driver),
	)
	fmt.Printf("Wrote %d lakes to the catalog store\n", len(records))
	return nil
}

func init() {
	catalogCmd.AddCommand(catalogSeedCmd, catalogImportCmd, catalogListCmd, catalogDeleteCmd)
	rootCmd.AddCommand(catalogCmd)
}
