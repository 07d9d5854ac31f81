// Package history keeps a record of past cycles.
//
// Every cycle adds one CycleRun row to the sync_cycle_runs table (MySQL or
// SQLite through GORM). When object storage is configured the full JSON
// report is archived too, under a name that sorts chronologically, and only
// the newest reports are kept.
//
// Routes:
//
//	GET /history                    recent cycles
//	GET /history/:cycle_id/report   archived report
package history
