// Package analysis derives discrepancies, anomalies, reorder suggestions and
// insights from a snapshot of both stores.
//
// Every function is a pure transform: it reads the products and records it
// is given and never writes to either store. Rules run over sellable units
// (see inventory.SellableUnits), so a variable product with variants is judged
// through its variants only.
package analysis
