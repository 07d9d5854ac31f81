// Package cycle runs reconciliation cycles and serves their state.
//
// A cycle is: take the lock, run the reconciliation engine, re-read both
// stores, analyse them, then notify, record, publish and update metrics.
// Cycles never overlap. Service.Run and Service.Trigger return
// ErrCycleInProgress instead of waiting, and the Scheduler skips ticks that
// land on a running cycle.
//
// Routes:
//
//	GET  /health          liveness
//	GET  /status          scheduler state and last cycle summary
//	GET  /metrics         Prometheus metrics
//	GET  /cycles/latest   full report of the last cycle
//	POST /cycles          start a cycle now (202, or 409 while one runs)
package cycle
