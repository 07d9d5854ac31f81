package cmd

import (
	"context"

	"stock-sync/core/config"

	"github.com/spf13/cobra"
)

var analyzeThreshold int

// analyzeCmd analyses both stores without writing.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse both stores without writing",
	Long: `Reads the catalog and the record database and prints discrepancies,
anomalies, reorder suggestions and insights. Nothing is written.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeThreshold, "threshold", 0, "Reorder threshold (defaults to SYNC_REORDER_THRESHOLD)")
	analyzeCmd.Flags().BoolVar(&showNotes, "notes", false, "Print a note for every unit with findings")
	RootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := bootstrap(ctx, false, func(cfg *config.Config) {
		if analyzeThreshold > 0 {
			cfg.Sync.ReorderThreshold = analyzeThreshold
		}
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	rep, err := rt.cycles.Analyze(ctx)
	if err != nil {
		return err
	}
	printReport(cmd, rep)
	return nil
}
