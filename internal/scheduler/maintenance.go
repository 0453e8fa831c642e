package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/common"
	"github.com/ternarybob/merx/internal/interfaces"
	"github.com/ternarybob/merx/internal/models"
)

// Maintenance runs periodic housekeeping over the job store: running jobs
// that stopped making progress are failed, and terminal jobs past the
// retention window are pruned together with their products.
type Maintenance struct {
	jobs       interfaces.JobStorage
	products   interfaces.ProductStorage
	logger     arbor.ILogger
	cron       *cron.Cron
	schedule   string
	staleAfter time.Duration
	retention  time.Duration
}

// NewMaintenance creates the maintenance scheduler. Returns nil when
// maintenance is disabled by configuration.
func NewMaintenance(
	jobs interfaces.JobStorage,
	products interfaces.ProductStorage,
	config common.MaintenanceConfig,
	logger arbor.ILogger,
) (*Maintenance, error) {
	if !config.Enabled {
		logger.Debug().Msg("Maintenance scheduler disabled by configuration")
		return nil, nil
	}

	staleAfter, err := time.ParseDuration(config.StaleAfter)
	if err != nil {
		return nil, fmt.Errorf("invalid maintenance stale_after %q: %w", config.StaleAfter, err)
	}
	retention, err := time.ParseDuration(config.Retention)
	if err != nil {
		return nil, fmt.Errorf("invalid maintenance retention %q: %w", config.Retention, err)
	}

	m := &Maintenance{
		jobs:       jobs,
		products:   products,
		logger:     logger,
		cron:       cron.New(),
		schedule:   config.Schedule,
		staleAfter: staleAfter,
		retention:  retention,
	}

	if _, err := m.cron.AddFunc(config.Schedule, m.runOnce); err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", config.Schedule, err)
	}

	return m, nil
}

// Start begins the cron schedule
func (m *Maintenance) Start() {
	m.cron.Start()
	m.logger.Info().Str("schedule", m.schedule).Msg("Maintenance scheduler started")
}

// Stop halts the schedule and waits for a running pass to finish
func (m *Maintenance) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *Maintenance) runOnce() {
	ctx := context.Background()

	if err := m.reapStaleJobs(ctx); err != nil {
		m.logger.Error().Err(err).Msg("Stale job reaping failed")
	}
	if err := m.pruneExpiredJobs(ctx); err != nil {
		m.logger.Error().Err(err).Msg("Job retention pruning failed")
	}
}

// reapStaleJobs fails running jobs whose runner is gone, e.g. after an
// unclean shutdown. A job counts as stale when it started longer ago than
// the stale_after window and is still marked running.
func (m *Maintenance) reapStaleJobs(ctx context.Context) error {
	running, err := m.jobs.GetJobsByStatus(ctx, models.JobStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to list running jobs: %w", err)
	}

	cutoff := time.Now().Add(-m.staleAfter)
	for _, job := range running {
		if job.StartedAt == nil || job.StartedAt.After(cutoff) {
			continue
		}

		now := time.Now()
		job.Status = models.JobStatusFailed
		job.Error = fmt.Sprintf("job abandoned: no completion after %s", m.staleAfter)
		job.CurrentStep = models.StepIdle
		job.CompletedAt = &now

		if err := m.jobs.SaveJob(ctx, job); err != nil {
			m.logger.Error().Err(err).Str("job_id", job.ID).Msg("Failed to reap stale job")
			continue
		}
		m.logger.Warn().Str("job_id", job.ID).Str("started_at", job.StartedAt.Format(time.RFC3339)).Msg("Reaped stale running job")
	}

	return nil
}

// pruneExpiredJobs deletes terminal jobs older than the retention window,
// products first so a crash between the two deletes never orphans products
func (m *Maintenance) pruneExpiredJobs(ctx context.Context) error {
	cutoff := time.Now().Add(-m.retention)

	for _, status := range []models.JobStatus{models.JobStatusCompleted, models.JobStatusFailed, models.JobStatusCancelled} {
		jobs, err := m.jobs.GetJobsByStatus(ctx, status)
		if err != nil {
			return fmt.Errorf("failed to list %s jobs: %w", status, err)
		}

		for _, job := range jobs {
			if job.CompletedAt == nil || job.CompletedAt.After(cutoff) {
				continue
			}

			deleted, err := m.products.DeleteProductsForJob(ctx, job.ID)
			if err != nil {
				m.logger.Error().Err(err).Str("job_id", job.ID).Msg("Failed to delete products for expired job")
				continue
			}
			if err := m.jobs.DeleteJob(ctx, job.ID); err != nil {
				m.logger.Error().Err(err).Str("job_id", job.ID).Msg("Failed to delete expired job")
				continue
			}

			m.logger.Info().
				Str("job_id", job.ID).
				Str("status", string(status)).
				Int("products_deleted", deleted).
				Msg("Pruned expired job")
		}
	}

	return nil
}
