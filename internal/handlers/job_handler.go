package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/interfaces"
	"github.com/ternarybob/merx/internal/models"
	"github.com/ternarybob/merx/internal/orchestrator"
)

// JobHandler exposes scrape job submission, inspection and control over HTTP
type JobHandler struct {
	orchestrator *orchestrator.Service
	jobStorage   interfaces.JobStorage
	logger       arbor.ILogger
}

func NewJobHandler(orch *orchestrator.Service, jobStorage interfaces.JobStorage, logger arbor.ILogger) *JobHandler {
	return &JobHandler{
		orchestrator: orch,
		jobStorage:   jobStorage,
		logger:       logger,
	}
}

type submitRequest struct {
	URL string `json:"url"`
}

// SubmitScrape handles POST /api/scrape - create and start a new scrape job
func (h *JobHandler) SubmitScrape(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		WriteError(w, http.StatusBadRequest, "Field 'url' is required")
		return
	}

	job, err := h.orchestrator.Submit(r.Context(), req.URL)
	if err != nil {
		if strings.Contains(err.Error(), "invalid storefront URL") {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error().Err(err).Str("url", req.URL).Msg("Failed to submit scrape job")
		WriteError(w, http.StatusInternalServerError, "Failed to submit scrape job")
		return
	}

	WriteJSON(w, http.StatusAccepted, job)
}

// ListJobs handles GET /api/jobs - list jobs with optional status filter
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit, offset := GetLimitOffset(r)
	opts := &interfaces.JobListOptions{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	}

	jobs, err := h.jobStorage.ListJobs(r.Context(), opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list jobs")
		WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	total, err := h.jobStorage.CountJobs(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to count jobs")
		WriteError(w, http.StatusInternalServerError, "Failed to count jobs")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":   jobs,
		"count":  len(jobs),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetJob handles GET /api/jobs/{id} - job status and progress snapshot
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	job, err := h.jobStorage.GetJob(r.Context(), jobID)
	if err != nil {
		h.writeJobError(w, jobID, err)
		return
	}

	WriteJSON(w, http.StatusOK, job)
}

// PauseJob handles POST /api/jobs/{id}/pause
func (h *JobHandler) PauseJob(w http.ResponseWriter, r *http.Request, jobID string) {
	h.control(w, r, jobID, h.orchestrator.Pause)
}

// ResumeJob handles POST /api/jobs/{id}/resume
func (h *JobHandler) ResumeJob(w http.ResponseWriter, r *http.Request, jobID string) {
	h.control(w, r, jobID, h.orchestrator.Resume)
}

// CancelJob handles POST /api/jobs/{id}/cancel
func (h *JobHandler) CancelJob(w http.ResponseWriter, r *http.Request, jobID string) {
	h.control(w, r, jobID, h.orchestrator.Cancel)
}

func (h *JobHandler) control(w http.ResponseWriter, r *http.Request, jobID string, op func(context.Context, string) (*models.ScrapeJob, error)) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	job, err := op(r.Context(), jobID)
	if err != nil {
		h.writeJobError(w, jobID, err)
		return
	}

	WriteJSON(w, http.StatusOK, job)
}

// writeJobError maps domain errors to HTTP status codes: unknown job is
// 404, an illegal lifecycle transition is 409, everything else is 500
func (h *JobHandler) writeJobError(w http.ResponseWriter, jobID string, err error) {
	switch {
	case strings.Contains(err.Error(), "not found"):
		WriteError(w, http.StatusNotFound, "Job not found: "+jobID)
	case errors.Is(err, orchestrator.ErrInvalidTransition):
		WriteError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error().Err(err).Str("job_id", jobID).Msg("Job operation failed")
		WriteError(w, http.StatusInternalServerError, "Job operation failed")
	}
}
