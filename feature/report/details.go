package report

import (
	"time"

	"stock-sync/core/inventory"
	"stock-sync/feature/analysis"
)

// Detail is the note line of one unit with findings.
type Detail struct {
	Ref  string `json:"ref"`
	SKU  string `json:"sku"`
	Note string `json:"note"`
}

// Details returns a note for every sellable unit that has an anomaly or a
// reorder suggestion in a, in catalog order.
func Details(products []inventory.Product, a analysis.Result, now time.Time) []Detail {
	flagged := make(map[string]bool, len(a.Anomalies)+len(a.Suggestions))
	for _, an := range a.Anomalies {
		flagged[an.Ref] = true
	}
	for _, s := range a.Suggestions {
		flagged[s.Ref] = true
	}

	var details []Detail
	for _, u := range inventory.SellableUnits(products) {
		if !flagged[u.Ref()] {
			continue
		}
		details = append(details, Detail{
			Ref:  u.Ref(),
			SKU:  u.SKU,
			Note: analysis.Notes(u, a.Anomalies, a.Suggestions, now),
		})
	}
	return details
}
