// pkg/model/cleaning.go
package model

import (
	"time"
)

// Cleaning stages in the order the cleaner applies them
const (
	StageDeduplicate        = "deduplicate"
	StageValidateRanges     = "validate_ranges"
	StageHandleMissing      = "handle_missing"
	StageWinsorize          = "winsorize"
	StageStandardizeFormats = "standardize_formats"
)

// CleaningLogEntry records one transformation that changed the dataset
type CleaningLogEntry struct {
	Timestamp time.Time `json:"timestamp"`        // When the transformation ran
	RunID     string    `json:"run_id"`           // Cleaning run the entry belongs to
	Stage     string    `json:"stage"`            // Stage that produced the entry
	Action    string    `json:"action"`           // What was done (e.g., "removed duplicates")
	Column    string    `json:"column,omitempty"` // Affected column, if any
	Count     int       `json:"count"`            // Number of rows or values affected
	Details   string    `json:"details"`          // Human-readable detail (e.g., "3 rows")
}

// CleaningSummary aggregates a cleaning run for reporting
type CleaningSummary struct {
	RunID        string         `json:"run_id"`
	Dataset      string         `json:"dataset"`
	RowsBefore   int            `json:"rows_before"`
	RowsAfter    int            `json:"rows_after"`
	ActionCounts map[string]int `json:"action_counts"` // stage -> number of entries
}

// SummarizeCleaning builds a summary from a log
func SummarizeCleaning(runID, dataset string, rowsBefore, rowsAfter int, log []CleaningLogEntry) CleaningSummary {
	counts := make(map[string]int)
	for _, entry := range log {
		counts[entry.Stage]++
	}
	return CleaningSummary{
		RunID:        runID,
		Dataset:      dataset,
		RowsBefore:   rowsBefore,
		RowsAfter:    rowsAfter,
		ActionCounts: counts,
	}
}
