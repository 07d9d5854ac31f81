// Package notion implements the record gateway over a Notion database.
//
// Each record is a database page with the properties Name (title), SKU
// (rich text), Stock (number), Brand (rich text), Price (number) and Category
// (select). Calls go through a retry.Transport; 409, 429 and 5xx answers are
// retried.
//
// SKU lookups try the database's exact rich text filter first and fall back
// to comparing normalized SKUs over the last full listing, which is kept for
// Config.IndexTTLSeconds.
package notion
