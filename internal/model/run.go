package model

import "time"

// RunStatus represents the state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one pipeline execution recorded in the run log.
type Run struct {
	ID          string         `json:"id"`
	Status      RunStatus      `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	RowsLoaded  int64          `json:"rows_loaded"`
	Warnings    int            `json:"warnings"`
	Error       string         `json:"error,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// RunResult is passed to the run log when a run completes.
type RunResult struct {
	RowsLoaded int64          `json:"rows_loaded"`
	Warnings   int            `json:"warnings"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// EditionCount is the number of stored matches for one edition.
type EditionCount struct {
	Edition string `json:"edition"`
	Matches int    `json:"matches"`
}
