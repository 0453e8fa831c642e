package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/interfaces"
)

// ProductHandler serves scraped products for a job
type ProductHandler struct {
	jobStorage     interfaces.JobStorage
	productStorage interfaces.ProductStorage
	logger         arbor.ILogger
}

func NewProductHandler(jobStorage interfaces.JobStorage, productStorage interfaces.ProductStorage, logger arbor.ILogger) *ProductHandler {
	return &ProductHandler{
		jobStorage:     jobStorage,
		productStorage: productStorage,
		logger:         logger,
	}
}

// ListProducts handles GET /api/jobs/{id}/products with search, category,
// brand and pagination query parameters
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request, jobID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if _, err := h.jobStorage.GetJob(r.Context(), jobID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteError(w, http.StatusNotFound, "Job not found: "+jobID)
			return
		}
		h.logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to load job")
		WriteError(w, http.StatusInternalServerError, "Failed to load job")
		return
	}

	limit, offset := GetLimitOffset(r)
	opts := &interfaces.ProductListOptions{
		JobID:    jobID,
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Brand:    r.URL.Query().Get("brand"),
		Limit:    limit,
		Offset:   offset,
	}

	products, err := h.productStorage.ListProducts(r.Context(), opts)
	if err != nil {
		h.logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to list products")
		WriteError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	total, err := h.productStorage.CountProducts(r.Context(), jobID)
	if err != nil {
		h.logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to count products")
		WriteError(w, http.StatusInternalServerError, "Failed to count products")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"job_id":   jobID,
		"products": products,
		"count":    len(products),
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}
