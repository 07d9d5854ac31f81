// Package server holds the HTTP API configuration.
//
// The API exposes health, cycle status, manual triggers and Prometheus
// metrics. It is started by the start command next to the scheduler.
package server
