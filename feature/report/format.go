package report

import (
	"fmt"
	"strings"

	"stock-sync/feature/analysis"
)

const (
	rule = "========================================"
	// topN bounds the anomaly and suggestion lists of the text report.
	topN = 5
)

// Format renders the text report printed after each cycle.
func Format(r Report) string {
	var b strings.Builder

	b.WriteString("STOCK SYNC REPORT\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Date: %s\n", r.GeneratedAt.Format("02/01/2006 15:04:05"))
	if r.Fatal != "" {
		fmt.Fprintf(&b, "CYCLE FAILED: %s\n", r.Fatal)
	}
	if r.Cancelled {
		b.WriteString("CYCLE CANCELLED: stopped before every unit was processed\n")
	}
	b.WriteString("\n")

	if c := r.Cycle; c != nil {
		mode := "live"
		if c.DryRun {
			mode = "dry run"
		}
		fmt.Fprintf(&b, "Cycle %s (%s, %s)\n", c.ID, r.Status(), mode)
		fmt.Fprintf(&b, "Duration: %s\n", c.Duration())
		fmt.Fprintf(&b, "Catalog updated from records: %d\n", c.Push.Updated)
		fmt.Fprintf(&b, "Records updated: %d\n", c.Pull.Updated)
		fmt.Fprintf(&b, "Records created: %d\n", c.Pull.Created)
		fmt.Fprintf(&b, "Duplicates skipped: %d\n", c.Pull.Duplicates)
		fmt.Fprintf(&b, "Failures: %d\n", len(c.Failures))
		for i, f := range c.Failures {
			if i == topN {
				fmt.Fprintf(&b, "  ... and %d more\n", len(c.Failures)-topN)
				break
			}
			fmt.Fprintf(&b, "  - %s\n", f.Error())
		}
		b.WriteString("\n")
	}

	a := r.Analysis
	fmt.Fprintf(&b, "Catalog products: %d\n", a.Products)
	fmt.Fprintf(&b, "Inventory records: %d\n", a.Records)
	fmt.Fprintf(&b, "Discrepancies: %d\n", len(a.Discrepancies))
	b.WriteString("Insights:\n")
	for _, line := range insightLines(a.Insights) {
		fmt.Fprintf(&b, "  - %s\n", line)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Anomalies detected: %d\n", len(a.Anomalies))
	for i, an := range a.Anomalies {
		if i == topN {
			fmt.Fprintf(&b, "  ... and %d more\n", len(a.Anomalies)-topN)
			break
		}
		fmt.Fprintf(&b, "  - [%s] %s: %s\n", an.Severity, an.Name, an.Message)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Reorder suggestions: %d\n", len(a.Suggestions))
	for i, s := range a.Suggestions {
		if i == topN {
			fmt.Fprintf(&b, "  ... and %d more\n", len(a.Suggestions)-topN)
			break
		}
		fmt.Fprintf(&b, "  - %s (%d units, order %d)\n", s.Name, s.CurrentStock, s.RecommendedOrder)
	}

	return b.String()
}

func insightLines(in analysis.Insights) []string {
	avg := "n/a"
	if in.AverageStock != nil {
		avg = fmt.Sprintf("%.1f", *in.AverageStock)
	}
	rate := "n/a"
	if in.SyncRate != nil {
		rate = fmt.Sprintf("%.1f%%", *in.SyncRate)
	}
	return []string{
		"Average stock: " + avg,
		fmt.Sprintf("Out of stock: %d", in.OutOfStock),
		fmt.Sprintf("Generated SKUs: %d", in.SyntheticSKUs),
		"Sync rate: " + rate,
	}
}
