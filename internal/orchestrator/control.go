package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/merx/internal/interfaces"
	"github.com/ternarybob/merx/internal/models"
)

// Pause asks a running job to stop at its next checkpoint. The status
// flips to paused immediately; the run loop observes it and blocks until
// resumed or cancelled.
func (s *Service) Pause(ctx context.Context, jobID string) (*models.ScrapeJob, error) {
	lock := s.jobLock(jobID)
	lock.Lock()
	defer lock.Unlock()

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status != models.JobStatusRunning {
		return nil, fmt.Errorf("%w: cannot pause job in status %q", ErrInvalidTransition, job.Status)
	}

	job.Status = models.JobStatusPaused
	if err := s.jobs.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist pause: %w", err)
	}

	s.publish(interfaces.EventJobStatusChanged, job)
	s.logger.Info().Str("job_id", jobID).Msg("Pause requested")
	return job, nil
}

// Resume lets a paused job continue from the checkpoint it stopped at
func (s *Service) Resume(ctx context.Context, jobID string) (*models.ScrapeJob, error) {
	lock := s.jobLock(jobID)
	lock.Lock()
	defer lock.Unlock()

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status != models.JobStatusPaused {
		return nil, fmt.Errorf("%w: cannot resume job in status %q", ErrInvalidTransition, job.Status)
	}

	job.Status = models.JobStatusRunning
	if err := s.jobs.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist resume: %w", err)
	}

	s.publish(interfaces.EventJobStatusChanged, job)
	s.logger.Info().Str("job_id", jobID).Msg("Resume requested")
	return job, nil
}

// Cancel marks a job for cancellation. Pending, running and paused jobs
// are cancellable; cancelling an already cancelled job is a no-op. The
// run loop finalizes the record at its next checkpoint, so the status may
// lag the request briefly.
func (s *Service) Cancel(ctx context.Context, jobID string) (*models.ScrapeJob, error) {
	lock := s.jobLock(jobID)
	lock.Lock()
	defer lock.Unlock()

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	switch job.Status {
	case models.JobStatusCancelled:
		// Idempotent
		return job, nil
	case models.JobStatusCompleted, models.JobStatusFailed:
		return nil, fmt.Errorf("%w: cannot cancel job in status %q", ErrInvalidTransition, job.Status)
	}

	if job.CancelRequested {
		return job, nil
	}

	job.CancelRequested = true
	if job.Status == models.JobStatusPending {
		// No run loop has picked it up yet, settle it directly
		now := time.Now()
		job.Status = models.JobStatusCancelled
		job.CurrentStep = models.StepIdle
		job.StepDetail = "Cancelled before start"
		job.CompletedAt = &now
	}

	if err := s.jobs.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist cancel: %w", err)
	}

	s.publish(interfaces.EventJobStatusChanged, job)
	s.logger.Info().Str("job_id", jobID).Str("status", string(job.Status)).Msg("Cancel requested")
	return job, nil
}
