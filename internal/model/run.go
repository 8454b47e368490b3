package model

import "time"

// RunStatus represents the current state of a collection run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run represents one archived collection run.
type Run struct {
	ID        string     `json:"id"`
	Queries   []string   `json:"queries"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the final counters for a run.
type RunResult struct {
	Collected int    `json:"collected"`
	Deduped   int    `json:"deduped"`
	Kept      int    `json:"kept"`
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
}
