package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/common"
	"github.com/ternarybob/merx/internal/interfaces"
	"github.com/ternarybob/merx/internal/models"
)

// Service runs scrape jobs end to end: paginate through a storefront,
// persist each extracted product, enhance it, and keep the job record
// updated as a single atomic snapshot so pollers never observe progress
// counters that violate their ordering.
//
// Control commands (pause, resume, cancel) act through the job record in
// storage. The run loop observes them cooperatively at two checkpoints:
// before fetching each page, and after persisting each product.
type Service struct {
	jobs       interfaces.JobStorage
	products   interfaces.ProductStorage
	source     interfaces.PageSource
	enhancer   interfaces.Enhancer
	events     interfaces.EventService
	scraperCfg common.ScraperConfig
	pausePoll  time.Duration
	logger     arbor.ILogger
	validate   *validator.Validate

	// locks holds one mutex per job ID, serializing read-modify-write
	// cycles on the job record between control commands and snapshots
	locks sync.Map

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a scrape job orchestrator. The enhancer may be nil,
// in which case products keep their pending enhancement state.
func NewService(
	jobs interfaces.JobStorage,
	products interfaces.ProductStorage,
	source interfaces.PageSource,
	productEnhancer interfaces.Enhancer,
	eventService interfaces.EventService,
	scraperCfg common.ScraperConfig,
	orchCfg common.OrchestratorConfig,
	logger arbor.ILogger,
) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	pausePoll := 500 * time.Millisecond
	if orchCfg.PausePollInterval != "" {
		if d, err := time.ParseDuration(orchCfg.PausePollInterval); err == nil && d > 0 {
			pausePoll = d
		} else {
			logger.Warn().Str("pause_poll_interval", orchCfg.PausePollInterval).Msg("Invalid pause_poll_interval, using 500ms")
		}
	}
	if scraperCfg.MaxPages <= 0 {
		scraperCfg.MaxPages = 10
	}

	return &Service{
		jobs:       jobs,
		products:   products,
		source:     source,
		enhancer:   productEnhancer,
		events:     eventService,
		scraperCfg: scraperCfg,
		pausePoll:  pausePoll,
		logger:     logger,
		validate:   validator.New(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Submit creates a new scrape job for the given storefront URL and starts
// its run loop in the background. The returned job is in pending status;
// callers poll or subscribe for progress.
func (s *Service) Submit(ctx context.Context, url string) (*models.ScrapeJob, error) {
	if err := s.validate.Var(url, "required,url"); err != nil {
		return nil, fmt.Errorf("invalid storefront URL %q: %w", url, err)
	}

	job := &models.ScrapeJob{
		ID:          common.NewJobID(),
		URL:         url,
		Status:      models.JobStatusPending,
		CurrentStep: models.StepIdle,
		StepDetail:  "Queued",
		CreatedAt:   time.Now(),
	}

	if err := s.jobs.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist job: %w", err)
	}

	s.publish(interfaces.EventJobCreated, job)
	s.logger.Info().Str("job_id", job.ID).Str("url", url).Msg("Scrape job submitted")

	s.wg.Add(1)
	common.SafeGoWithContext(s.ctx, s.logger, "job-"+job.ID, func() {
		defer s.wg.Done()
		s.run(job.ID)
	})

	return job, nil
}

// Stop signals all run loops to exit and waits for them to finish
func (s *Service) Stop() {
	s.cancel()
	s.wg.Wait()
}

// run executes one scrape job to a terminal state
func (s *Service) run(jobID string) {
	ctx := s.ctx

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("Run loop could not load job")
		return
	}

	// A cancel that landed before the run loop started wins immediately
	if job.Status == models.JobStatusCancelled {
		return
	}
	if job.CancelRequested {
		s.finalizeCancelled(ctx, job)
		return
	}
	if job.Status != models.JobStatusPending {
		s.logger.Warn().Str("job_id", jobID).Str("status", string(job.Status)).Msg("Run loop found job not pending, skipping")
		return
	}

	now := time.Now()
	job.Status = models.JobStatusRunning
	job.StartedAt = &now
	job.CurrentStep = models.StepFetching
	job.StepDetail = "Starting"
	if err := s.persistSnapshot(ctx, job); err != nil {
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to mark job running")
		return
	}
	s.publish(interfaces.EventJobStatusChanged, job)

	for page := 1; ; page++ {
		// Checkpoint A: control state before each page fetch
		if stop := s.observeControl(ctx, job); stop != nil {
			s.settleControl(ctx, job, stop)
			return
		}

		job.CurrentStep = models.StepFetching
		job.StepDetail = fmt.Sprintf("Fetching page %d", page)
		if err := s.persistSnapshot(ctx, job); err != nil {
			s.logger.Warn().Err(err).Str("job_id", job.ID).Msg("Failed to persist fetch progress")
		}
		s.publish(interfaces.EventJobProgress, job)

		extraction, err := s.source.FetchPage(ctx, job.URL, page)
		if err != nil {
			if page == 1 {
				// Nothing scraped yet, the job cannot produce anything
				s.finalizeFailed(ctx, job, fmt.Sprintf("failed to fetch first page: %v", err))
				return
			}
			// A later page that stops responding ends pagination
			s.logger.Warn().Err(err).Str("job_id", job.ID).Int("page", page).Msg("Page fetch failed, treating as end of pagination")
			s.finalizeCompleted(ctx, job)
			return
		}

		if len(extraction.Products) == 0 {
			if page == 1 {
				s.finalizeFailed(ctx, job, "no products found at URL")
				return
			}
			s.finalizeCompleted(ctx, job)
			return
		}

		job.CurrentStep = models.StepExtracting
		job.StepDetail = fmt.Sprintf("Extracted %d products from page %d", len(extraction.Products), page)
		job.Progress.CurrentPage = page
		job.Progress.TotalProductsFound += len(extraction.Products)
		if page > job.Progress.TotalPages {
			job.Progress.TotalPages = page
		}
		if err := s.persistSnapshot(ctx, job); err != nil {
			s.logger.Warn().Err(err).Str("job_id", job.ID).Msg("Failed to persist extraction progress")
		}
		s.publish(interfaces.EventJobProgress, job)

		for i := range extraction.Products {
			product := s.buildProduct(job, &extraction.Products[i], page)

			if err := s.products.SaveProduct(ctx, product); err != nil {
				s.logger.Error().Err(err).Str("job_id", job.ID).Str("product_id", product.ID).Msg("Failed to persist product")
				s.finalizeFailed(ctx, job, fmt.Sprintf("failed to persist product: %v", err))
				return
			}
			job.Progress.ProductsProcessed++

			if err := s.persistSnapshot(ctx, job); err != nil {
				s.logger.Warn().Err(err).Str("job_id", job.ID).Msg("Failed to persist product progress")
			}
			s.publish(interfaces.EventJobProgress, job)

			// Checkpoint B: control state after each persisted product,
			// before spending an enhancement call on it
			if stop := s.observeControl(ctx, job); stop != nil {
				s.settleControl(ctx, job, stop)
				return
			}

			s.enhanceProduct(ctx, job, product, i+1, len(extraction.Products))

			if err := s.persistSnapshot(ctx, job); err != nil {
				s.logger.Warn().Err(err).Str("job_id", job.ID).Msg("Failed to persist enhancement progress")
			}
			s.publish(interfaces.EventJobProgress, job)
		}

		if !extraction.HasNext {
			s.finalizeCompleted(ctx, job)
			return
		}
		if page >= s.scraperCfg.MaxPages {
			s.logger.Info().Str("job_id", job.ID).Int("max_pages", s.scraperCfg.MaxPages).Msg("Reached page cap, finishing job")
			s.finalizeCompleted(ctx, job)
			return
		}
	}
}

// buildProduct converts one raw extraction into a persisted product record
func (s *Service) buildProduct(job *models.ScrapeJob, raw *interfaces.RawProduct, page int) *models.Product {
	return &models.Product{
		ID:            common.NewProductID(),
		JobID:         job.ID,
		Title:         raw.Title,
		Description:   raw.Description,
		Price:         raw.Price,
		OriginalPrice: raw.OriginalPrice,
		Currency:      raw.Currency,
		Availability:  raw.Availability,
		Brand:         raw.Brand,
		Category:      raw.Category,
		SKU:           raw.SKU,
		Rating:        raw.Rating,
		ReviewCount:   raw.ReviewCount,
		MainImageURL:  raw.MainImageURL,
		ImageURLs:     raw.ImageURLs,
		Enhancement:   models.Enhancement{State: models.EnhancementPending},
		SourceURL:     job.URL,
		PageIndex:     page,
		ScrapedAt:     time.Now(),
	}
}

// enhanceProduct runs AI enrichment for one product. Failure is recoverable:
// the product keeps its raw attributes with enhancement left pending.
func (s *Service) enhanceProduct(ctx context.Context, job *models.ScrapeJob, product *models.Product, index, total int) {
	if s.enhancer == nil {
		return
	}

	job.CurrentStep = models.StepEnhancing
	job.StepDetail = fmt.Sprintf("Enhancing %q (%d of %d on page %d)", product.Title, index, total, product.PageIndex)

	enhancement, err := s.enhancer.Enhance(ctx, product)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("job_id", job.ID).
			Str("product_id", product.ID).
			Str("title", product.Title).
			Msg("Product enhancement failed, keeping raw record")
		return
	}

	product.Enhancement = *enhancement
	if err := s.products.SaveProduct(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("product_id", product.ID).Msg("Failed to persist enhanced product")
		return
	}
	job.Progress.ProductsEnhanced++
}

// observeControl is the checkpoint: it reads the stored job record and
// reacts to control commands. It returns nil to continue, errCancelled if
// a cancel was observed, or another error if control state could not be
// read. While the stored status is paused it blocks, polling until the
// job is resumed or cancelled.
func (s *Service) observeControl(ctx context.Context, job *models.ScrapeJob) error {
	waited := false
	for {
		stored, err := s.jobs.GetJob(ctx, job.ID)
		if err != nil {
			return fmt.Errorf("control check failed: %w", err)
		}

		if stored.CancelRequested || stored.Status == models.JobStatusCancelled {
			job.CancelRequested = true
			return errCancelled
		}

		if stored.Status != models.JobStatusPaused {
			if waited {
				s.logger.Info().Str("job_id", job.ID).Msg("Job resumed")
			}
			job.Status = models.JobStatusRunning
			return nil
		}

		if !waited {
			waited = true
			job.Status = models.JobStatusPaused
			s.logger.Info().Str("job_id", job.ID).Msg("Job paused, waiting for resume")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.pausePoll):
		}
	}
}

// settleControl finalizes the job after a checkpoint interrupted the run
func (s *Service) settleControl(ctx context.Context, job *models.ScrapeJob, cause error) {
	switch {
	case errors.Is(cause, errCancelled):
		s.finalizeCancelled(ctx, job)
	case errors.Is(cause, context.Canceled):
		// Service shutdown: leave the record as-is, maintenance will
		// reap it if the process never comes back
		s.logger.Warn().Str("job_id", job.ID).Msg("Run loop stopped by shutdown, job left running")
	default:
		s.finalizeFailed(ctx, job, cause.Error())
	}
}

func (s *Service) finalizeCompleted(ctx context.Context, job *models.ScrapeJob) {
	job.Progress.TotalPages = job.Progress.CurrentPage
	job.StepDetail = fmt.Sprintf("Completed: %d products from %d pages, %d enhanced",
		job.Progress.ProductsProcessed, job.Progress.CurrentPage, job.Progress.ProductsEnhanced)
	s.finalize(ctx, job, models.JobStatusCompleted, "")
}

func (s *Service) finalizeFailed(ctx context.Context, job *models.ScrapeJob, reason string) {
	job.StepDetail = "Failed"
	s.finalize(ctx, job, models.JobStatusFailed, reason)
}

func (s *Service) finalizeCancelled(ctx context.Context, job *models.ScrapeJob) {
	job.CancelRequested = true
	job.StepDetail = fmt.Sprintf("Cancelled after %d products", job.Progress.ProductsProcessed)
	s.finalize(ctx, job, models.JobStatusCancelled, "")
}

// finalize moves the job into a terminal state exactly once
func (s *Service) finalize(ctx context.Context, job *models.ScrapeJob, status models.JobStatus, errMsg string) {
	now := time.Now()
	job.Status = status
	job.Error = errMsg
	job.CurrentStep = models.StepIdle
	job.CompletedAt = &now

	lock := s.jobLock(job.ID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.jobs.SaveJob(ctx, job); err != nil {
		s.logger.Error().Err(err).Str("job_id", job.ID).Str("status", string(status)).Msg("Failed to persist terminal job state")
		return
	}

	s.publish(interfaces.EventJobStatusChanged, job)
	s.logger.Info().
		Str("job_id", job.ID).
		Str("status", string(status)).
		Int("found", job.Progress.TotalProductsFound).
		Int("processed", job.Progress.ProductsProcessed).
		Int("enhanced", job.Progress.ProductsEnhanced).
		Msg("Scrape job finished")
}

// persistSnapshot upserts the whole job record. It holds the job lock
// for the read-modify-write so a control command can never interleave
// its own read and write with the snapshot, and it merges stored control
// flags in first so a snapshot never reverts a pause or cancel that
// landed since the last checkpoint.
func (s *Service) persistSnapshot(ctx context.Context, job *models.ScrapeJob) error {
	lock := s.jobLock(job.ID)
	lock.Lock()
	defer lock.Unlock()

	stored, err := s.jobs.GetJob(ctx, job.ID)
	if err == nil {
		if stored.CancelRequested {
			job.CancelRequested = true
		}
		if stored.Status == models.JobStatusPaused || stored.Status == models.JobStatusCancelled {
			job.Status = stored.Status
		}
	}

	return s.jobs.SaveJob(ctx, job)
}

// jobLock returns the mutex guarding one job record. Control commands
// and run loop writes share it, so each sees the other's completed write
// rather than a snapshot taken mid-update.
func (s *Service) jobLock(jobID string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(jobID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (s *Service) publish(eventType interfaces.EventType, job *models.ScrapeJob) {
	if s.events == nil {
		return
	}

	snapshot := *job
	_ = s.events.Publish(s.ctx, interfaces.Event{
		Type:      eventType,
		Payload:   &snapshot,
		Timestamp: time.Now(),
	})
}
