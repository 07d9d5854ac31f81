// Package database opens the GORM connection that stores cycle history.
//
// MySQL is used in production. SQLite serves single-node installs and tests;
// pass ":memory:" as Name for a throwaway database.
//
// GetTableColumns and MissingColumns let the history repository verify its
// table before the API reports itself healthy.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	missing, err := database.MissingColumns(db, "sync_cycle_runs", []string{"cycle_id", "status"})
package database
