// Package report turns a cycle and its analysis into the artifacts people
// read: the text report, the compact Summary and per-finding log entries.
package report
