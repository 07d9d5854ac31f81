package report

import (
	"time"

	"stock-sync/core/reconcile"
	"stock-sync/feature/analysis"
)

// Status is the overall outcome of a cycle.
type Status string

const (
	// StatusSuccess means every unit was reconciled.
	StatusSuccess Status = "success"
	// StatusPartial means the cycle finished with contained unit failures.
	StatusPartial Status = "partial"
	// StatusFailed means a store or the cycle lock could not be reached and
	// nothing was written.
	StatusFailed Status = "failed"
	// StatusCancelled means the cycle stopped between units on shutdown. The
	// units finished before that were written.
	StatusCancelled Status = "cancelled"
	// StatusAnalysis marks an analysis-only run.
	StatusAnalysis Status = "analysis"
)

// Report is everything a cycle produced. Cycle is nil for analysis-only
// runs.
type Report struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Cycle       *reconcile.CycleResult `json:"cycle,omitempty"`
	Analysis    analysis.Result        `json:"analysis"`
	// Details holds the note of every unit with findings.
	Details []Detail `json:"details,omitempty"`
	// Fatal is the error that aborted the cycle, if any.
	Fatal string `json:"fatal,omitempty"`
	// Cancelled is set when the cycle stopped early on cancellation.
	Cancelled bool `json:"cancelled,omitempty"`
}

// Status classifies the report.
func (r Report) Status() Status {
	switch {
	case r.Fatal != "":
		return StatusFailed
	case r.Cycle == nil:
		return StatusAnalysis
	case r.Cancelled:
		return StatusCancelled
	case len(r.Cycle.Failures) > 0:
		return StatusPartial
	default:
		return StatusSuccess
	}
}

// CycleID returns the id of the cycle, or "" for analysis-only runs.
func (r Report) CycleID() string {
	if r.Cycle == nil {
		return ""
	}
	return r.Cycle.ID
}

// Summary is the compact view of a report served by the status endpoint
// and stored in history.
type Summary struct {
	CycleID       string    `json:"cycle_id,omitempty"`
	Status        Status    `json:"status"`
	GeneratedAt   time.Time `json:"generated_at"`
	DryRun        bool      `json:"dry_run"`
	DurationMs    int64     `json:"duration_ms"`
	Pushed        int       `json:"pushed"`
	Updated       int       `json:"updated"`
	Created       int       `json:"created"`
	Duplicates    int       `json:"duplicates"`
	Failures      int       `json:"failures"`
	Products      int       `json:"products"`
	Records       int       `json:"records"`
	Discrepancies int       `json:"discrepancies"`
	Anomalies     int       `json:"anomalies"`
	Suggestions   int       `json:"suggestions"`
	Fatal         string    `json:"fatal,omitempty"`
}

// NewSummary condenses r.
func NewSummary(r Report) Summary {
	s := Summary{
		CycleID:       r.CycleID(),
		Status:        r.Status(),
		GeneratedAt:   r.GeneratedAt,
		Products:      r.Analysis.Products,
		Records:       r.Analysis.Records,
		Discrepancies: len(r.Analysis.Discrepancies),
		Anomalies:     len(r.Analysis.Anomalies),
		Suggestions:   len(r.Analysis.Suggestions),
		Fatal:         r.Fatal,
	}
	if c := r.Cycle; c != nil {
		s.DryRun = c.DryRun
		s.DurationMs = c.Duration().Milliseconds()
		s.Pushed = c.Push.Updated
		s.Updated = c.Pull.Updated
		s.Created = c.Pull.Created
		s.Duplicates = c.Pull.Duplicates
		s.Failures = len(c.Failures)
	}
	return s
}
