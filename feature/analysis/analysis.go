package analysis

import (
	"fmt"
	"strings"
	"time"

	"stock-sync/core/inventory"
	"stock-sync/core/sku"
)

// Analyze runs every rule over one snapshot of both stores. Rules evaluate
// sellable units, so a variable product is judged through its variants.
func Analyze(products []inventory.Product, records []inventory.InventoryRecord, threshold int) Result {
	units := inventory.SellableUnits(products)
	discrepancies, warnings := detectDiscrepancies(units, parentKeys(products), records)

	return Result{
		Products:      len(products),
		Units:         len(units),
		Records:       len(records),
		Discrepancies: discrepancies,
		Warnings:      warnings,
		Anomalies:     DetectAnomalies(units),
		Suggestions:   SuggestReorders(units, threshold),
		Insights:      ComputeInsights(units, records),
	}
}

// DetectDiscrepancies compares stock per SKU. Records whose SKU matches no
// unit yield a warning instead.
func DetectDiscrepancies(units []inventory.Unit, records []inventory.InventoryRecord) ([]Discrepancy, []string) {
	return detectDiscrepancies(units, nil, records)
}

// parentKeys returns the SKUs of variable products that sell through their
// variants.
func parentKeys(products []inventory.Product) map[sku.Key]bool {
	keys := make(map[sku.Key]bool)
	for _, p := range products {
		if !p.HasVariants() {
			continue
		}
		if key, ok := sku.Normalize(p.SKU); ok {
			keys[key] = true
		}
	}
	return keys
}

func detectDiscrepancies(units []inventory.Unit, parents map[sku.Key]bool, records []inventory.InventoryRecord) ([]Discrepancy, []string) {
	byKey := make(map[sku.Key]inventory.Unit, len(units))
	for _, u := range units {
		key, ok := sku.Normalize(u.SKU)
		if !ok {
			continue
		}
		if _, dup := byKey[key]; !dup {
			byKey[key] = u
		}
	}

	var (
		discrepancies []Discrepancy
		warnings      []string
	)
	for _, r := range records {
		key, ok := sku.Normalize(r.SKU)
		if !ok {
			continue
		}
		u, found := byKey[key]
		if !found && parents[key] {
			warnings = append(warnings, fmt.Sprintf("SKU %s belongs to a variable product; only its variants are synced", strings.TrimSpace(r.SKU)))
			continue
		}
		if !found {
			warnings = append(warnings, fmt.Sprintf("SKU %s found in records but not in the catalog", strings.TrimSpace(r.SKU)))
			continue
		}

		catalog, record := u.StockValue(), r.StockValue()
		if catalog == record {
			continue
		}
		diff := abs(catalog - record)
		discrepancies = append(discrepancies, Discrepancy{
			SKU:          u.SKU,
			Name:         u.Name,
			CatalogStock: catalog,
			RecordStock:  record,
			Difference:   diff,
			Severity:     discrepancySeverity(diff),
		})
	}
	return discrepancies, warnings
}

func discrepancySeverity(diff int) Severity {
	switch {
	case diff > 100:
		return SeverityCritical
	case diff > 50:
		return SeverityHigh
	case diff > 10:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// DetectAnomalies applies each rule to every unit independently; a unit may
// trigger several.
func DetectAnomalies(units []inventory.Unit) []Anomaly {
	var anomalies []Anomaly
	for _, u := range units {
		stock := u.StockValue()
		add := func(t AnomalyType, sev Severity, msg, rec string) {
			anomalies = append(anomalies, Anomaly{
				Type:           t,
				Severity:       sev,
				Ref:            u.Ref(),
				ProductID:      u.ProductID,
				SKU:            u.SKU,
				Name:           u.Name,
				Message:        msg,
				Recommendation: rec,
			})
		}

		if stock < 0 {
			add(NegativeStock, SeverityCritical,
				fmt.Sprintf("Negative stock: %d", stock),
				"Check the catalog stock immediately")
		}
		if stock == 0 && u.Status == inventory.StatusPublish {
			add(OutOfStock, SeverityHigh,
				"Out of stock but still published",
				"Unpublish the product or place an order")
		}
		if !hasPrice(u.Price) {
			add(MissingPrice, SeverityMedium,
				"Price not set",
				"Set the product price")
		}
		if stock > 10000 {
			add(UnusualStock, SeverityMedium,
				fmt.Sprintf("Unusually high stock: %d", stock),
				"Check for a synchronization error")
		}
	}
	return anomalies
}

// hasPrice is false for an empty, unparseable or zero price.
func hasPrice(raw string) bool {
	price, ok, err := inventory.ParsePrice(raw)
	return err == nil && ok && !price.IsZero()
}

// SuggestReorders flags units with 0 < stock <= threshold. A non-positive
// threshold falls back to DefaultReorderThreshold.
func SuggestReorders(units []inventory.Unit, threshold int) []ReorderSuggestion {
	if threshold <= 0 {
		threshold = DefaultReorderThreshold
	}

	var suggestions []ReorderSuggestion
	for _, u := range units {
		stock := u.StockValue()
		if stock <= 0 || stock > threshold {
			continue
		}
		suggestions = append(suggestions, ReorderSuggestion{
			Ref:              u.Ref(),
			ProductID:        u.ProductID,
			SKU:              u.SKU,
			Name:             u.Name,
			CurrentStock:     stock,
			Threshold:        threshold,
			Urgency:          urgency(stock, threshold),
			RecommendedOrder: max(50, 3*threshold),
			Message:          fmt.Sprintf("Low stock (%d units), reorder recommended", stock),
		})
	}
	return suggestions
}

func urgency(stock, threshold int) Severity {
	s, t := float64(stock), float64(threshold)
	switch {
	case s <= 0.25*t:
		return SeverityCritical
	case s <= 0.5*t:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// ComputeInsights summarizes stock levels and SKU coverage.
func ComputeInsights(units []inventory.Unit, records []inventory.InventoryRecord) Insights {
	var (
		insights Insights
		withSKU  int
		total    int
	)
	for _, u := range units {
		stock := u.StockValue()
		if stock <= 0 {
			insights.OutOfStock++
		}
		if _, ok := sku.Normalize(u.SKU); !ok {
			continue
		}
		withSKU++
		total += stock
		if sku.IsSynthetic(u.SKU) {
			insights.SyntheticSKUs++
		}
	}

	if withSKU > 0 {
		avg := float64(total) / float64(withSKU)
		insights.AverageStock = &avg
	}
	if len(records) > 0 {
		rate := float64(withSKU) / float64(len(records)) * 100
		insights.SyncRate = &rate
	}
	return insights
}

// Notes renders the one-line status of a unit: its stock band followed by
// the messages of its anomalies and reorder suggestions.
func Notes(u inventory.Unit, anomalies []Anomaly, suggestions []ReorderSuggestion, now time.Time) string {
	stock := u.StockValue()
	parts := []string{fmt.Sprintf("[Sync %s]", now.Format("02/01/2006 15:04"))}

	switch {
	case stock == 0:
		parts = append(parts, "Out of stock")
	case stock < 10:
		parts = append(parts, fmt.Sprintf("Critical stock (%d units)", stock))
	case stock > 100:
		parts = append(parts, fmt.Sprintf("Plenty of stock (%d units)", stock))
	default:
		parts = append(parts, fmt.Sprintf("Stock available (%d units)", stock))
	}

	ref := u.Ref()
	for _, a := range anomalies {
		if a.Ref == ref {
			parts = append(parts, a.Message)
		}
	}
	for _, s := range suggestions {
		if s.Ref == ref {
			parts = append(parts, s.Message)
		}
	}
	return strings.Join(parts, " | ")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
