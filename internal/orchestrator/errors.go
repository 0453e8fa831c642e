package orchestrator

import "errors"

var (
	// ErrInvalidTransition is returned when a control command does not
	// apply to the job's current status, e.g. pausing a completed job.
	ErrInvalidTransition = errors.New("invalid job state transition")

	// errCancelled is the internal signal that a cancel request was
	// observed at a checkpoint. It never escapes the run loop.
	errCancelled = errors.New("cancel requested")
)
