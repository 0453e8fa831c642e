package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Scraping
	mux.HandleFunc("/api/scrape", s.app.JobHandler.SubmitScrape) // POST - submit storefront URL

	// API routes - Jobs
	mux.HandleFunc("/api/jobs", s.app.JobHandler.ListJobs)
	mux.HandleFunc("/api/jobs/", s.handleJobRoutes) // Handles /api/jobs/{id} and subpaths

	// API routes - Products
	mux.HandleFunc("/api/products/", s.handleProductRoutes) // Handles /api/products/{id}/export

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/shutdown", s.ShutdownHandler) // Graceful shutdown endpoint (dev mode)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleJobRoutes routes /api/jobs/{id} requests and subpaths to the
// appropriate handler
func (s *Server) handleJobRoutes(w http.ResponseWriter, r *http.Request) {
	suffix := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/jobs/"), "/")
	if suffix == "" {
		s.app.JobHandler.ListJobs(w, r)
		return
	}

	parts := strings.SplitN(suffix, "/", 2)
	jobID := parts[0]

	// GET /api/jobs/{id}
	if len(parts) == 1 {
		s.app.JobHandler.GetJob(w, r, jobID)
		return
	}

	switch parts[1] {
	case "pause":
		s.app.JobHandler.PauseJob(w, r, jobID)
	case "resume":
		s.app.JobHandler.ResumeJob(w, r, jobID)
	case "cancel":
		s.app.JobHandler.CancelJob(w, r, jobID)
	case "products":
		s.app.ProductHandler.ListProducts(w, r, jobID)
	case "export":
		s.app.ExportHandler.ExportJob(w, r, jobID)
	default:
		s.app.APIHandler.NotFoundHandler(w, r)
	}
}

// handleProductRoutes routes /api/products/{id}/export requests
func (s *Server) handleProductRoutes(w http.ResponseWriter, r *http.Request) {
	suffix := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/products/"), "/")

	parts := strings.SplitN(suffix, "/", 2)
	if suffix == "" || len(parts) < 2 || parts[1] != "export" {
		s.app.APIHandler.NotFoundHandler(w, r)
		return
	}

	s.app.ExportHandler.ExportProduct(w, r, parts[0])
}
