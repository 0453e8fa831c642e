package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/export"
	"github.com/ternarybob/merx/internal/interfaces"
	"github.com/ternarybob/merx/internal/models"
)

// ExportHandler serves job catalogs in downloadable formats
type ExportHandler struct {
	jobStorage     interfaces.JobStorage
	productStorage interfaces.ProductStorage
	exporter       *export.Service
	logger         arbor.ILogger
}

func NewExportHandler(jobStorage interfaces.JobStorage, productStorage interfaces.ProductStorage, exporter *export.Service, logger arbor.ILogger) *ExportHandler {
	return &ExportHandler{
		jobStorage:     jobStorage,
		productStorage: productStorage,
		exporter:       exporter,
		logger:         logger,
	}
}

// ExportJob handles GET /api/jobs/{id}/export?format=csv|json|xml|xlsx|pdf
func (h *ExportHandler) ExportJob(w http.ResponseWriter, r *http.Request, jobID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.jobStorage.GetJob(r.Context(), jobID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteError(w, http.StatusNotFound, "Job not found: "+jobID)
			return
		}
		h.logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to load job for export")
		WriteError(w, http.StatusInternalServerError, "Failed to load job")
		return
	}

	products, err := h.productStorage.ListProducts(r.Context(), &interfaces.ProductListOptions{JobID: jobID})
	if err != nil {
		h.logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to load products for export")
		WriteError(w, http.StatusInternalServerError, "Failed to load products")
		return
	}

	data, err := h.exporter.Export(format, job, products)
	if err != nil {
		h.logger.Error().Err(err).Str("job_id", jobID).Str("format", string(format)).Msg("Export failed")
		WriteError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	filename := fmt.Sprintf("%s.%s", jobID, format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ExportProduct handles GET /api/products/{id}/export?format=csv|json|xml|xlsx|pdf
// and renders a single product as a one-row catalog download
func (h *ExportHandler) ExportProduct(w http.ResponseWriter, r *http.Request, productID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.productStorage.GetProduct(r.Context(), productID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteError(w, http.StatusNotFound, "Product not found: "+productID)
			return
		}
		h.logger.Error().Err(err).Str("product_id", productID).Msg("Failed to load product for export")
		WriteError(w, http.StatusInternalServerError, "Failed to load product")
		return
	}

	job, err := h.jobStorage.GetJob(r.Context(), product.JobID)
	if err != nil {
		h.logger.Error().Err(err).Str("product_id", productID).Str("job_id", product.JobID).Msg("Failed to load job for product export")
		WriteError(w, http.StatusInternalServerError, "Failed to load job")
		return
	}

	data, err := h.exporter.Export(format, job, []*models.Product{product})
	if err != nil {
		h.logger.Error().Err(err).Str("product_id", productID).Str("format", string(format)).Msg("Product export failed")
		WriteError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	filename := fmt.Sprintf("%s.%s", productID, format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
