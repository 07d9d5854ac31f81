package history

import (
	"time"

	"stock-sync/feature/report"
)

// TableName is the table holding one row per cycle.
const TableName = "sync_cycle_runs"

// CycleRun is the persisted outcome of one cycle.
type CycleRun struct {
	ID            uint      `gorm:"column:id;primaryKey" json:"-"`
	CycleID       string    `gorm:"column:cycle_id;size:64;uniqueIndex" json:"cycle_id"`
	Status        string    `gorm:"column:status;size:16;index" json:"status"`
	DryRun        bool      `gorm:"column:dry_run" json:"dry_run"`
	GeneratedAt   time.Time `gorm:"column:generated_at;index" json:"generated_at"`
	DurationMs    int64     `gorm:"column:duration_ms" json:"duration_ms"`
	Pushed        int       `gorm:"column:pushed" json:"pushed"`
	Updated       int       `gorm:"column:updated" json:"updated"`
	Created       int       `gorm:"column:created" json:"created"`
	Duplicates    int       `gorm:"column:duplicates" json:"duplicates"`
	Failures      int       `gorm:"column:failures" json:"failures"`
	Products      int       `gorm:"column:products" json:"products"`
	Records       int       `gorm:"column:records" json:"records"`
	Discrepancies int       `gorm:"column:discrepancies" json:"discrepancies"`
	Anomalies     int       `gorm:"column:anomalies" json:"anomalies"`
	Suggestions   int       `gorm:"column:suggestions" json:"suggestions"`
	Fatal         string    `gorm:"column:fatal;type:text" json:"fatal,omitempty"`
	// ReportKey is the archived report object, empty when archiving is off.
	ReportKey string `gorm:"column:report_key;size:255" json:"report_key,omitempty"`
}

// TableName overrides the table name.
func (CycleRun) TableName() string {
	return TableName
}

// requiredColumns are checked by Repository.Check.
var requiredColumns = []string{
	"id", "cycle_id", "status", "dry_run", "generated_at", "duration_ms",
	"pushed", "updated", "created", "duplicates", "failures",
	"products", "records", "discrepancies", "anomalies", "suggestions",
	"fatal", "report_key",
}

// NewCycleRun builds the row for r.
func NewCycleRun(r report.Report, reportKey string) CycleRun {
	s := report.NewSummary(r)
	return CycleRun{
		CycleID:       s.CycleID,
		Status:        string(s.Status),
		DryRun:        s.DryRun,
		GeneratedAt:   s.GeneratedAt,
		DurationMs:    s.DurationMs,
		Pushed:        s.Pushed,
		Updated:       s.Updated,
		Created:       s.Created,
		Duplicates:    s.Duplicates,
		Failures:      s.Failures,
		Products:      s.Products,
		Records:       s.Records,
		Discrepancies: s.Discrepancies,
		Anomalies:     s.Anomalies,
		Suggestions:   s.Suggestions,
		Fatal:         s.Fatal,
		ReportKey:     reportKey,
	}
}
