package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/app"
	"github.com/ternarybob/merx/internal/common"
	"github.com/ternarybob/merx/internal/events"
	"github.com/ternarybob/merx/internal/export"
	"github.com/ternarybob/merx/internal/handlers"
	"github.com/ternarybob/merx/internal/interfaces"
	"github.com/ternarybob/merx/internal/models"
	"github.com/ternarybob/merx/internal/orchestrator"
	badgerstore "github.com/ternarybob/merx/internal/storage/badger"
)

type noopSource struct{}

func (noopSource) FetchPage(ctx context.Context, baseURL string, page int) (*interfaces.PageExtraction, error) {
	return &interfaces.PageExtraction{}, nil
}

func newTestServer(t *testing.T) (*Server, interfaces.JobStorage) {
	t.Helper()

	logger := arbor.NewLogger()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Badger.Path = filepath.Join(t.TempDir(), "merx-test")

	manager, err := badgerstore.NewManager(logger, &cfg.Storage.Badger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	orch := orchestrator.NewService(
		manager.JobStorage(), manager.ProductStorage(), noopSource{}, nil, nil,
		cfg.Scraper, cfg.Orchestrator, logger,
	)
	t.Cleanup(orch.Stop)

	eventService := events.NewService(logger)
	application := &app.App{
		Config:         cfg,
		Logger:         logger,
		StorageManager: manager,
		EventService:   eventService,
		Orchestrator:   orch,
		ExportService:  export.NewService(logger),
		APIHandler:     handlers.NewAPIHandler(),
		JobHandler:     handlers.NewJobHandler(orch, manager.JobStorage(), logger),
		ProductHandler: handlers.NewProductHandler(manager.JobStorage(), manager.ProductStorage(), logger),
		ExportHandler:  handlers.NewExportHandler(manager.JobStorage(), manager.ProductStorage(), export.NewService(logger), logger),
		WSHandler:      handlers.NewWebSocketHandler(eventService, logger, &cfg.WebSocket),
	}

	return New(application), manager.JobStorage()
}

func TestRouteDispatch(t *testing.T) {
	srv, jobs := newTestServer(t)
	require.NoError(t, jobs.SaveJob(context.Background(), &models.ScrapeJob{
		ID:        "job_1",
		URL:       "https://shop.example.com",
		Status:    models.JobStatusRunning,
		CreatedAt: time.Now(),
	}))

	ts := httptest.NewServer(srv.withMiddleware(srv.router))
	defer ts.Close()

	cases := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"health", "GET", "/api/health", http.StatusOK},
		{"version", "GET", "/api/version", http.StatusOK},
		{"list jobs", "GET", "/api/jobs", http.StatusOK},
		{"job by id", "GET", "/api/jobs/job_1", http.StatusOK},
		{"job products", "GET", "/api/jobs/job_1/products", http.StatusOK},
		{"job export", "GET", "/api/jobs/job_1/export?format=json", http.StatusOK},
		{"pause", "POST", "/api/jobs/job_1/pause", http.StatusOK},
		{"resume", "POST", "/api/jobs/job_1/resume", http.StatusOK},
		{"unknown job", "GET", "/api/jobs/job_missing", http.StatusNotFound},
		{"unknown subpath", "GET", "/api/jobs/job_1/bogus", http.StatusNotFound},
		{"product export unknown", "GET", "/api/products/prod_missing/export?format=json", http.StatusNotFound},
		{"product without action", "GET", "/api/products/prod_1", http.StatusNotFound},
		{"unknown api route", "GET", "/api/bogus", http.StatusNotFound},
		{"scrape wrong method", "GET", "/api/scrape", http.StatusMethodNotAllowed},
	}

	client := ts.Client()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, ts.URL+tc.path, nil)
			require.NoError(t, err)
			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	ts := httptest.NewServer(srv.withMiddleware(srv.router))
	defer ts.Close()

	req, err := http.NewRequest("OPTIONS", ts.URL+"/api/jobs", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestShutdownHandler(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ShutdownHandler(rec, httptest.NewRequest("POST", "/api/shutdown", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case <-srv.ShutdownRequested():
	default:
		t.Fatal("shutdown channel not closed")
	}

	// A second request must not panic on the closed channel
	rec = httptest.NewRecorder()
	srv.ShutdownHandler(rec, httptest.NewRequest("POST", "/api/shutdown", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
}
