package models

import (
	"time"
)

// JobStatus represents the state of a scrape job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusPaused    JobStatus = "paused"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// JobStep identifies the orchestrator's current phase within a running job
type JobStep string

const (
	StepIdle       JobStep = "idle"
	StepFetching   JobStep = "fetching"
	StepExtracting JobStep = "extracting"
	StepEnhancing  JobStep = "enhancing"
	StepExporting  JobStep = "exporting"
)

// JobProgress tracks scrape job progress. All counters are monotonically
// non-decreasing while the job is running and only ever written by the
// owning orchestrator.
type JobProgress struct {
	TotalProductsFound int `json:"total_products_found"`
	ProductsProcessed  int `json:"products_processed"`
	ProductsEnhanced   int `json:"products_ai_enhanced"`
	CurrentPage        int `json:"current_page"`
	TotalPages         int `json:"total_pages"` // 0 until pagination end is discovered
}

// ScrapeJob represents one end-to-end scrape-and-enhance run against a
// single storefront URL.
//
// Lifecycle: created in pending by the submission path; running once the
// orchestrator picks it up; may cycle running <-> paused any number of
// times; terminates exactly once into completed, failed, or cancelled.
// Terminal states are absorbing - no further mutation.
//
// CancelRequested is the cooperative cancellation marker: control commands
// set it through storage, and the orchestrator observes it at checkpoints
// between units of work. It is never cleared once set.
type ScrapeJob struct {
	ID              string      `json:"id"`
	URL             string      `json:"url"`
	Status          JobStatus   `json:"status"`
	CancelRequested bool        `json:"cancel_requested"`
	CurrentStep     JobStep     `json:"current_step"`
	StepDetail      string      `json:"step_detail"`
	Progress        JobProgress `json:"progress"`
	// Error contains a concise, user-friendly description of why the job
	// failed. Only populated when job status is 'failed'.
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// IsTerminal reports whether the job has reached a final state
func (j *ScrapeJob) IsTerminal() bool {
	switch j.Status {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the job can still make progress
func (j *ScrapeJob) IsActive() bool {
	switch j.Status {
	case JobStatusPending, JobStatusRunning, JobStatusPaused:
		return true
	}
	return false
}
