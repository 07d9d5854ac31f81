package analysis

import (
	"testing"
	"time"

	"stock-sync/core/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simple(id int64, sku string, stock *int, price, status string) inventory.Product {
	return inventory.Product{ID: id, SKU: sku, Name: "P" + sku, Type: inventory.TypeSimple, Stock: stock, Price: price, Status: status}
}

func record(sku string, stock *int) inventory.InventoryRecord {
	return inventory.InventoryRecord{PageID: "page-" + sku, SKU: sku, Stock: stock}
}

var ip = inventory.IntPtr

func TestDiscrepancySeverity(t *testing.T) {
	tests := []struct {
		diff int
		want Severity
	}{
		{1, SeverityLow},
		{10, SeverityLow},
		{11, SeverityMedium},
		{50, SeverityMedium},
		{51, SeverityHigh},
		{100, SeverityHigh},
		{101, SeverityCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, discrepancySeverity(tt.diff), "diff %d", tt.diff)
	}
}

func TestDetectDiscrepancies(t *testing.T) {
	units := inventory.SellableUnits([]inventory.Product{
		simple(1, "A", ip(10), "1", "publish"),
		simple(2, "B", ip(5), "1", "publish"),
		simple(3, "C", nil, "1", "publish"),
	})
	records := []inventory.InventoryRecord{
		record(" a ", ip(130)),
		record("B", ip(5)),
		record("C", ip(4)),
		record("GHOST", ip(1)),
		record("", ip(9)),
	}

	discrepancies, warnings := DetectDiscrepancies(units, records)
	require.Len(t, discrepancies, 2)
	assert.Equal(t, Discrepancy{SKU: "A", Name: "PA", CatalogStock: 10, RecordStock: 130, Difference: 120, Severity: SeverityCritical}, discrepancies[0])
	assert.Equal(t, Discrepancy{SKU: "C", Name: "PC", CatalogStock: 0, RecordStock: 4, Difference: 4, Severity: SeverityLow}, discrepancies[1])
	assert.Equal(t, []string{"SKU GHOST found in records but not in the catalog"}, warnings)
}

func TestDetectDiscrepanciesNilRecordStock(t *testing.T) {
	units := inventory.SellableUnits([]inventory.Product{simple(1, "A", ip(3), "1", "")})
	discrepancies, _ := DetectDiscrepancies(units, []inventory.InventoryRecord{record("A", nil)})
	require.Len(t, discrepancies, 1)
	assert.Equal(t, 0, discrepancies[0].RecordStock)
	assert.Equal(t, 3, discrepancies[0].Difference)
}

func TestDetectAnomalies(t *testing.T) {
	units := inventory.SellableUnits([]inventory.Product{
		simple(1, "NEG", ip(-2), "5", "publish"),
		simple(2, "OOS", ip(0), "5", "publish"),
		simple(3, "DRAFT", nil, "5", "draft"),
		simple(4, "NOPRICE", ip(4), "", "publish"),
		simple(5, "ZERO", ip(4), "0.00", "publish"),
		simple(6, "BAD", ip(4), "n/a", "publish"),
		simple(7, "HUGE", ip(10001), "5", "publish"),
		simple(8, "OK", ip(10000), "5", "publish"),
	})

	var got []string
	for _, a := range DetectAnomalies(units) {
		got = append(got, a.SKU+":"+string(a.Type)+":"+string(a.Severity))
	}
	assert.Equal(t, []string{
		"NEG:NEGATIVE_STOCK:CRITICAL",
		"OOS:OUT_OF_STOCK:HIGH",
		"NOPRICE:MISSING_PRICE:MEDIUM",
		"ZERO:MISSING_PRICE:MEDIUM",
		"BAD:MISSING_PRICE:MEDIUM",
		"HUGE:UNUSUAL_STOCK:MEDIUM",
	}, got)
}

func TestDetectAnomaliesMultiplePerUnit(t *testing.T) {
	units := inventory.SellableUnits([]inventory.Product{simple(1, "X", ip(0), "", "publish")})
	anomalies := DetectAnomalies(units)
	require.Len(t, anomalies, 2)
	assert.Equal(t, OutOfStock, anomalies[0].Type)
	assert.Equal(t, MissingPrice, anomalies[1].Type)
	assert.Equal(t, "product:1", anomalies[0].Ref)
	assert.Equal(t, "Unpublish the product or place an order", anomalies[0].Recommendation)
}

func TestAnalysisIsPure(t *testing.T) {
	products := []inventory.Product{
		simple(1, "A", ip(-1), "", "publish"),
		{ID: 2, SKU: "V", Type: inventory.TypeVariable, Status: "publish", Variants: []inventory.Variant{
			{ID: 20, SKU: "V-1", Stock: ip(2), Price: "3"},
		}},
	}
	records := []inventory.InventoryRecord{record("A", ip(5)), record("V-1", ip(9))}

	first := Analyze(products, records, 10)
	second := Analyze(products, records, 10)
	assert.Equal(t, first, second)
	assert.Equal(t, -1, *products[0].Stock)
	assert.Equal(t, ip(5), records[0].Stock)
}

func TestParentSkipped(t *testing.T) {
	parent := inventory.Product{
		ID: 9, SKU: "SHIRT", Name: "Shirt", Type: inventory.TypeVariable, Status: "publish",
		Variants: []inventory.Variant{
			{ID: 1, SKU: "SHIRT-S", Stock: ip(3), Price: "10", Attributes: []inventory.Attribute{{Name: "Size", Option: "S"}}},
			{ID: 2, SKU: "SHIRT-M", Stock: ip(0), Price: "10"},
		},
	}

	result := Analyze([]inventory.Product{parent}, nil, 10)
	assert.Equal(t, 1, result.Products)
	assert.Equal(t, 2, result.Units)
	for _, a := range result.Anomalies {
		assert.NotEqual(t, "SHIRT", a.SKU)
	}
	require.Len(t, result.Anomalies, 1)
	assert.Equal(t, "variant:9/2", result.Anomalies[0].Ref)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "Shirt - S", result.Suggestions[0].Name)
}

func TestParentRecordWarning(t *testing.T) {
	parent := inventory.Product{
		ID: 9, SKU: "SHIRT", Name: "Shirt", Type: inventory.TypeVariable,
		Variants: []inventory.Variant{{ID: 1, SKU: "SHIRT-S", Stock: ip(3)}},
	}
	records := []inventory.InventoryRecord{record("shirt", ip(3)), record("GHOST", ip(1))}

	result := Analyze([]inventory.Product{parent}, records, 10)
	assert.Empty(t, result.Discrepancies)
	assert.Equal(t, []string{
		"SKU shirt belongs to a variable product; only its variants are synced",
		"SKU GHOST found in records but not in the catalog",
	}, result.Warnings)
}

func TestSuggestReorders(t *testing.T) {
	units := inventory.SellableUnits([]inventory.Product{
		simple(1, "Z", ip(0), "1", ""),
		simple(2, "C", ip(2), "1", ""),
		simple(3, "C2", ip(5), "1", ""),
		simple(4, "H", ip(3), "1", ""),
		simple(5, "M", ip(8), "1", ""),
		simple(6, "T", ip(20), "1", ""),
		simple(7, "OVER", ip(21), "1", ""),
	})

	suggestions := SuggestReorders(units, 20)
	var got []string
	for _, s := range suggestions {
		got = append(got, s.SKU+":"+string(s.Urgency))
		assert.Equal(t, 60, s.RecommendedOrder)
		assert.Equal(t, 20, s.Threshold)
	}
	assert.Equal(t, []string{"C:CRITICAL", "C2:CRITICAL", "H:CRITICAL", "M:HIGH", "T:MEDIUM"}, got)
}

func TestSuggestReordersDefaults(t *testing.T) {
	units := inventory.SellableUnits([]inventory.Product{
		simple(1, "A", ip(2), "1", ""),
		simple(2, "B", ip(5), "1", ""),
		simple(3, "C", ip(6), "1", ""),
		simple(4, "D", ip(11), "1", ""),
	})

	suggestions := SuggestReorders(units, 0)
	require.Len(t, suggestions, 3)
	assert.Equal(t, SeverityCritical, suggestions[0].Urgency)
	assert.Equal(t, SeverityHigh, suggestions[1].Urgency)
	assert.Equal(t, SeverityMedium, suggestions[2].Urgency)
	assert.Equal(t, 50, suggestions[0].RecommendedOrder)
	assert.Equal(t, "Low stock (2 units), reorder recommended", suggestions[0].Message)
}

func TestComputeInsights(t *testing.T) {
	units := inventory.SellableUnits([]inventory.Product{
		simple(1, "A", ip(10), "1", ""),
		simple(2, "ADIVO-2", ip(0), "1", ""),
		simple(3, "B", ip(-4), "1", ""),
		simple(4, " ", ip(100), "1", ""),
	})

	insights := ComputeInsights(units, []inventory.InventoryRecord{record("A", nil), record("B", nil)})
	require.NotNil(t, insights.AverageStock)
	assert.InDelta(t, 2.0, *insights.AverageStock, 1e-9)
	assert.Equal(t, 2, insights.OutOfStock)
	assert.Equal(t, 1, insights.SyntheticSKUs)
	require.NotNil(t, insights.SyncRate)
	assert.InDelta(t, 150.0, *insights.SyncRate, 1e-9)
}

func TestComputeInsightsEmpty(t *testing.T) {
	insights := ComputeInsights(nil, nil)
	assert.Nil(t, insights.AverageStock)
	assert.Nil(t, insights.SyncRate)
	assert.Zero(t, insights.OutOfStock)
}

func TestAnomaliesBySeverity(t *testing.T) {
	r := Result{Anomalies: []Anomaly{{Severity: SeverityHigh}, {Severity: SeverityHigh}, {Severity: SeverityMedium}}}
	assert.Equal(t, map[string]int{"HIGH": 2, "MEDIUM": 1}, r.AnomaliesBySeverity())
}

func TestNotes(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	u := inventory.ProductUnit(simple(1, "A", ip(4), "", "publish"))
	other := inventory.ProductUnit(simple(2, "B", ip(4), "", "publish"))
	anomalies := DetectAnomalies([]inventory.Unit{u, other})
	suggestions := SuggestReorders([]inventory.Unit{u, other}, 10)

	assert.Equal(t,
		"[Sync 09/03/2024 14:05] | Critical stock (4 units) | Price not set | Low stock (4 units), reorder recommended",
		Notes(u, anomalies, suggestions, now))

	tests := []struct {
		stock int
		want  string
	}{
		{0, "[Sync 09/03/2024 14:05] | Out of stock"},
		{50, "[Sync 09/03/2024 14:05] | Stock available (50 units)"},
		{101, "[Sync 09/03/2024 14:05] | Plenty of stock (101 units)"},
	}
	for _, tt := range tests {
		unit := inventory.ProductUnit(simple(3, "C", ip(tt.stock), "1", ""))
		assert.Equal(t, tt.want, Notes(unit, nil, nil, now))
	}
}
