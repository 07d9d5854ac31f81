package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"stock-sync/feature/skubackfill"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	backfillLimit  int
	backfillDryRun bool
	yesConfirm     bool
)

// skuCmd is the parent command for SKU maintenance.
var skuCmd = &cobra.Command{
	Use:   "sku",
	Short: "SKU maintenance",
}

// skuBackfillCmd stores generated SKUs on catalog units.
var skuBackfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Store generated SKUs on catalog units that have none",
	Long: `Finds every sellable catalog unit without a SKU and writes the generated
ADIVO-<product>[-V<variant>] SKU onto it.

Examples:
  # List the units that would change
  stock-sync sku backfill --dry-run

  # Write the first 20 without prompting
  stock-sync sku backfill --limit 20 --yes`,
	RunE: runSkuBackfill,
}

func init() {
	skuBackfillCmd.Flags().IntVar(&backfillLimit, "limit", 0, "Maximum number of units to write (0 = all)")
	skuBackfillCmd.Flags().BoolVar(&backfillDryRun, "dry-run", false, "List the units without writing")
	skuBackfillCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Skip the confirmation prompt")
	skuCmd.AddCommand(skuBackfillCmd)
	RootCmd.AddCommand(skuCmd)
}

func runSkuBackfill(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := bootstrap(ctx, false, nil)
	if err != nil {
		return err
	}
	defer rt.Close()
	l := rt.logger

	plan, err := skubackfill.Run(ctx, rt.catalog, skubackfill.Options{Limit: backfillLimit, DryRun: true}, l)
	if err != nil {
		return err
	}
	for _, e := range plan.Entries {
		l.Info("Unit without SKU", zap.String("ref", e.Ref), zap.String("name", e.Name), zap.String("sku", e.SKU))
	}
	if backfillDryRun || len(plan.Entries) == 0 {
		l.Info("No changes were made", zap.Int("candidates", plan.Candidates))
		return nil
	}

	if !confirmWrite(len(plan.Entries)) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	result, err := skubackfill.Run(ctx, rt.catalog, skubackfill.Options{Limit: backfillLimit}, l)
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d SKU writes failed", result.Failed, len(result.Entries))
	}
	return nil
}

// confirmWrite prompts the user for confirmation or uses the --yes flag.
func confirmWrite(n int) bool {
	if yesConfirm {
		return true
	}

	fmt.Printf("\nType 'yes' to write %d SKUs to the catalog: ", n)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
