package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/itstock/internal/advice"
	"github.com/odyssey-erp/itstock/internal/inventory"
	"github.com/odyssey-erp/itstock/internal/masterdata/categories"
	"github.com/odyssey-erp/itstock/internal/observability"
	"github.com/odyssey-erp/itstock/internal/platform/kv"
	"github.com/odyssey-erp/itstock/internal/procurement"
	"github.com/odyssey-erp/itstock/internal/shared"
	"github.com/odyssey-erp/itstock/internal/storage"
	"github.com/odyssey-erp/itstock/jobs"
)

// Container owns the loaded state and every service built on it.
type Container struct {
	Config      *Config
	Logger      *slog.Logger
	Metrics     *observability.Metrics
	Backend     kv.Store
	Store       *storage.Store
	Inventory   *inventory.Service
	Categories  *categories.Service
	Procurement *procurement.Service
	Advisor     *advice.Client

	jobClient *jobs.Client
	inspector *asynq.Inspector
}

// OpenContainer opens the configured backend and builds the container on it.
func OpenContainer(ctx context.Context, cfg *Config, logger *slog.Logger) (*Container, error) {
	backend, err := kv.Open(ctx, cfg.KVConfig())
	if err != nil {
		return nil, fmt.Errorf("app: open store: %w", err)
	}
	c, err := NewContainer(ctx, cfg, logger, backend)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return c, nil
}

// NewContainer loads the persisted snapshot from backend and wires the services.
func NewContainer(ctx context.Context, cfg *Config, logger *slog.Logger, backend kv.Store) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	metrics := observability.NewMetrics()
	store := storage.New(backend, storage.Options{
		Prefix:  cfg.StoreKeyPrefix,
		Metrics: metrics,
		Logger:  logger,
	})
	snap := store.Load(ctx)

	advisor, err := advice.New(advice.Config{
		APIKey:  cfg.AdviceAPIKey,
		BaseURL: cfg.AdviceBaseURL,
		Model:   cfg.AdviceModel,
		Timeout: cfg.AdviceTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	inventoryService := inventory.NewService(
		inventory.NewLedger(snap.Items, snap.Movements),
		store,
		inventory.ServiceConfig{
			Audit:   shared.NewAuditLogger(logger),
			Metrics: metrics,
			Logger:  logger,
		},
	)
	categoryService := categories.NewService(categories.NewSet(snap.Categories), store, logger)
	procurementService := procurement.NewService(inventoryService, snap.ManualList, procurement.ServiceConfig{
		Store:   store,
		Advisor: advisor,
		Logger:  logger,
	})

	c := &Container{
		Config:      cfg,
		Logger:      logger,
		Metrics:     metrics,
		Backend:     backend,
		Store:       store,
		Inventory:   inventoryService,
		Categories:  categoryService,
		Procurement: procurementService,
		Advisor:     advisor,
	}
	if cfg.JobsEnabled {
		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
		client, err := jobs.NewClient(redisOpts)
		if err != nil {
			return nil, err
		}
		c.jobClient = client
		c.inspector = asynq.NewInspector(redisOpts)
	}
	return c, nil
}

// Router builds the HTTP handler over the container's services.
func (c *Container) Router() http.Handler {
	params := RouterParams{
		Logger:             c.Logger,
		Config:             c.Config,
		InventoryHandler:   inventory.NewHandler(c.Logger, c.Inventory),
		CategoryHandler:    categories.NewHandler(c.Logger, c.Categories, c.Inventory),
		ProcurementHandler: procurement.NewHandler(c.Logger, c.Procurement),
		StorageHandler:     storage.NewHandler(c.Store.Diagnostics()),
		Metrics:            c.Metrics,
		RequestLogging:     !InTestMode(),
	}
	if c.jobClient != nil {
		params.JobHandler = jobs.NewHandler(c.inspector, c.jobClient, c.Logger)
	}
	return NewRouter(params)
}

// Close releases the backend and job clients.
func (c *Container) Close() error {
	var errs []error
	if c.inspector != nil {
		errs = append(errs, c.inspector.Close())
	}
	if c.jobClient != nil {
		errs = append(errs, c.jobClient.Close())
	}
	if c.Backend != nil {
		errs = append(errs, c.Backend.Close())
	}
	return errors.Join(errs...)
}
