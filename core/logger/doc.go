// Package logger builds the zap logger shared by the CLI, the scheduler and
// the HTTP API.
//
// Level accepts debug, info, warn or error; Format is json or console. Console
// output is colored and drops stack traces, which suits interactive runs of
// the sync and analyze commands.
//
// WithRayID tags a logger with the request id set by the rayid middleware and
// WithCycle with the id of a synchronization cycle, so every line of a run can
// be correlated.
//
// # Usage
//
//	log, err := logger.New(&cfg.Log)
//	log.Info("Scheduler started", zap.Duration("interval", interval))
package logger
