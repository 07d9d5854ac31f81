package analysis

// Severity ranks discrepancies, anomalies and reorder urgency.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// AnomalyType names a data quality rule.
type AnomalyType string

const (
	NegativeStock AnomalyType = "NEGATIVE_STOCK"
	OutOfStock    AnomalyType = "OUT_OF_STOCK"
	MissingPrice  AnomalyType = "MISSING_PRICE"
	UnusualStock  AnomalyType = "UNUSUAL_STOCK"
)

// DefaultReorderThreshold is used when no positive threshold is configured.
const DefaultReorderThreshold = 10

// Discrepancy is a SKU whose stock differs between the two stores.
type Discrepancy struct {
	SKU          string   `json:"sku"`
	Name         string   `json:"name"`
	CatalogStock int      `json:"catalog_stock"`
	RecordStock  int      `json:"record_stock"`
	Difference   int      `json:"difference"`
	Severity     Severity `json:"severity"`
}

// Anomaly is a rule violation on one sellable unit.
type Anomaly struct {
	Type           AnomalyType `json:"type"`
	Severity       Severity    `json:"severity"`
	Ref            string      `json:"ref"`
	ProductID      int64       `json:"product_id"`
	SKU            string      `json:"sku"`
	Name           string      `json:"name"`
	Message        string      `json:"message"`
	Recommendation string      `json:"recommendation"`
}

// ReorderSuggestion flags a unit running low.
type ReorderSuggestion struct {
	Ref              string   `json:"ref"`
	ProductID        int64    `json:"product_id"`
	SKU              string   `json:"sku"`
	Name             string   `json:"name"`
	CurrentStock     int      `json:"current_stock"`
	Threshold        int      `json:"threshold"`
	Urgency          Severity `json:"urgency"`
	RecommendedOrder int      `json:"recommended_order"`
	Message          string   `json:"message"`
}

// Insights summarizes the catalog.
type Insights struct {
	// AverageStock is nil when no unit has a SKU.
	AverageStock *float64 `json:"average_stock,omitempty"`
	OutOfStock   int      `json:"out_of_stock"`
	// SyntheticSKUs counts units identified by a generated SKU.
	SyntheticSKUs int `json:"synthetic_skus"`
	// SyncRate is units with a SKU per record, in percent. It is nil when
	// there are no records.
	SyncRate *float64 `json:"sync_rate,omitempty"`
}

// Result bundles one analysis pass.
type Result struct {
	Products      int                 `json:"products"`
	Units         int                 `json:"units"`
	Records       int                 `json:"records"`
	Discrepancies []Discrepancy       `json:"discrepancies"`
	Warnings      []string            `json:"warnings"`
	Anomalies     []Anomaly           `json:"anomalies"`
	Suggestions   []ReorderSuggestion `json:"suggestions"`
	Insights      Insights            `json:"insights"`
}

// AnomaliesBySeverity counts anomalies per severity.
func (r Result) AnomaliesBySeverity() map[string]int {
	counts := make(map[string]int)
	for _, a := range r.Anomalies {
		counts[string(a.Severity)]++
	}
	return counts
}
