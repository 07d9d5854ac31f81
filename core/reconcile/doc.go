// Package reconcile keeps stock consistent between a commerce catalog and a
// record database that operators edit by hand.
//
// A cycle has two sequential phases over snapshots read at its start:
//
// 1. Push (record to catalog): a record with a SKU and a stock value is the
// authority. When the catalog unit with the same SKU holds a different stock,
// the catalog is overwritten with the record value.
//
// 2. Pull (catalog to record): every sellable unit is looked up in the record
// database. Existing records get min(record stock, catalog stock) so this
// phase can never restock a record, plus the catalog's brand, price and
// category. Missing records are created, and generated SKUs are stored back on
// the catalog so later cycles find the unit by the same identity.
//
// Identity is the SKU only, trimmed and case-folded (see core/sku). A variable
// product with variants never gets a record of its own.
//
// # Failures
//
// A store that cannot be listed aborts the cycle before any write and is
// reported as ErrStoreUnreachable. Every other failure is contained to the
// record or unit being processed, collected as a UnitFailure, and the cycle
// moves on.
//
// # Usage
//
//	engine := reconcile.NewEngine(catalog, records, reconcile.DefaultOptions(), logger, metrics)
//	result, err := engine.Run(ctx)
package reconcile
