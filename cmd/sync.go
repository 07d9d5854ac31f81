package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stock-sync/core/config"
	"stock-sync/feature/cycle"
	"stock-sync/feature/report"

	"github.com/spf13/cobra"
)

var (
	syncDryRun bool
	showNotes  bool
)

// syncCmd runs a single cycle.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one reconciliation cycle and print the report",
	Long: `Runs one full cycle: record stock is pushed onto the catalog, catalog
stock and metadata are pulled onto the records, then both stores are
analysed. Exits non-zero when a store could not be reached.

Examples:
  # Plan every write without performing it
  stock-sync sync --dry-run`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Plan writes without performing them")
	syncCmd.Flags().BoolVar(&showNotes, "notes", false, "Print a note for every unit with findings")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx, true, func(cfg *config.Config) {
		if syncDryRun {
			cfg.Sync.DryRun = true
		}
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	rep, err := rt.cycles.Run(ctx)
	if errors.Is(err, cycle.ErrCycleInProgress) {
		return err
	}
	printReport(cmd, rep)
	if rep.Cancelled {
		return fmt.Errorf("cycle cancelled: %w", err)
	}
	if err != nil {
		return fmt.Errorf("cycle failed: %w", err)
	}
	return nil
}

func printReport(cmd *cobra.Command, rep report.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, report.Format(rep))
	if !showNotes || len(rep.Details) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Notes:")
	for _, d := range rep.Details {
		fmt.Fprintf(out, "  %s: %s\n", d.SKU, d.Note)
	}
}
