// Package skubackfill writes generated SKUs onto catalog units that have
// none, so both stores key them the same way from then on.
package skubackfill
