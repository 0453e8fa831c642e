package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/common"
	"github.com/ternarybob/merx/internal/enhancer"
	"github.com/ternarybob/merx/internal/events"
	"github.com/ternarybob/merx/internal/export"
	"github.com/ternarybob/merx/internal/handlers"
	"github.com/ternarybob/merx/internal/interfaces"
	"github.com/ternarybob/merx/internal/llm"
	"github.com/ternarybob/merx/internal/orchestrator"
	"github.com/ternarybob/merx/internal/scheduler"
	"github.com/ternarybob/merx/internal/scraper"
	badgerstore "github.com/ternarybob/merx/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Core services
	EventService  interfaces.EventService
	PageSource    interfaces.PageSource
	LLMService    interfaces.LLMService
	Enhancer      interfaces.Enhancer
	Orchestrator  *orchestrator.Service
	ExportService *export.Service
	Maintenance   *scheduler.Maintenance

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	JobHandler     *handlers.JobHandler
	ProductHandler *handlers.ProductHandler
	ExportHandler  *handlers.ExportHandler
	WSHandler      *handlers.WebSocketHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := badgerstore.NewManager(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager
	logger.Debug().
		Str("storage", "badger").
		Str("path", cfg.Storage.Badger.Path).
		Msg("Storage layer initialized")

	app.EventService = events.NewService(logger)
	app.PageSource = scraper.NewService(cfg.Scraper, logger)

	llmService, err := llm.NewLLMService(cfg, logger)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to initialize LLM service: %w", err)
	}
	app.LLMService = llmService

	if llmService != nil {
		app.Enhancer = enhancer.NewService(llmService, cfg.Enhancer, logger)
	} else {
		logger.Warn().Msg("AI enhancement disabled - products will keep pending enhancement state")
	}

	app.Orchestrator = orchestrator.NewService(
		storageManager.JobStorage(),
		storageManager.ProductStorage(),
		app.PageSource,
		app.Enhancer,
		app.EventService,
		cfg.Scraper,
		cfg.Orchestrator,
		logger,
	)

	app.ExportService = export.NewService(logger)

	maintenance, err := scheduler.NewMaintenance(
		storageManager.JobStorage(),
		storageManager.ProductStorage(),
		cfg.Maintenance,
		logger,
	)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to initialize maintenance scheduler: %w", err)
	}
	app.Maintenance = maintenance
	if maintenance != nil {
		maintenance.Start()
	}

	app.APIHandler = handlers.NewAPIHandler()
	app.JobHandler = handlers.NewJobHandler(app.Orchestrator, storageManager.JobStorage(), logger)
	app.ProductHandler = handlers.NewProductHandler(storageManager.JobStorage(), storageManager.ProductStorage(), logger)
	app.ExportHandler = handlers.NewExportHandler(storageManager.JobStorage(), storageManager.ProductStorage(), app.ExportService, logger)
	app.WSHandler = handlers.NewWebSocketHandler(app.EventService, logger, &cfg.WebSocket)

	logger.Info().
		Str("llm_provider", cfg.LLM.Provider).
		Bool("maintenance_enabled", maintenance != nil).
		Msg("Application initialization complete")

	return app, nil
}

// Close shuts down all services in reverse dependency order
func (a *App) Close(ctx context.Context) error {
	if a.Orchestrator != nil {
		a.Orchestrator.Stop()
	}
	if a.Maintenance != nil {
		a.Maintenance.Stop()
	}
	if a.EventService != nil {
		if closer, ok := a.EventService.(*events.Service); ok {
			closer.Close()
		}
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	a.Logger.Info().Msg("Application shutdown complete")
	return nil
}
