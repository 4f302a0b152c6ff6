package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/odyssey-erp/itstock/internal/jobs"
	"github.com/odyssey-erp/itstock/internal/procurement"
	"github.com/odyssey-erp/itstock/internal/storage"
)

// SnapshotLoader reads the persisted collections.
type SnapshotLoader interface {
	Load(ctx context.Context) storage.Snapshot
}

// LowStockScanJob reports items at or below their threshold.
type LowStockScanJob struct {
	Loader  SnapshotLoader
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewLowStockScanJob initialises the scan handler.
func NewLowStockScanJob(loader SnapshotLoader, logger *slog.Logger, metrics *jobmetrics.Metrics) *LowStockScanJob {
	return &LowStockScanJob{
		Loader:  loader,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the scan.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Loader == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Source == "" {
		payload.Source = "cron"
	}

	_, err := j.Scan(ctx, payload.Source)
	return err
}

// Scan loads the snapshot, derives suggestions and records the gauge.
func (j *LowStockScanJob) Scan(ctx context.Context, source string) (suggestions []procurement.Suggestion, resultErr error) {
	start := j.now()
	tracker := j.Metrics.Track(TaskLowStockScan)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("source", source))
	logger.Info("starting low stock scan")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := j.Loader.Load(ctx)
	suggestions = procurement.DeriveLowStock(snap.Items)
	for _, s := range suggestions {
		logger.Warn("item below threshold",
			slog.String("item_id", s.ItemID),
			slog.String("name", s.Name),
			slog.Int("quantity", s.Quantity),
			slog.Int("min_threshold", s.MinThreshold),
			slog.Int("suggested", s.SuggestedQuantity),
		)
	}
	j.Metrics.SetLowStock(len(suggestions))

	logger.Info("completed low stock scan",
		slog.Int("items", len(snap.Items)),
		slog.Int("low_stock", len(suggestions)),
		slog.Duration("duration", j.now().Sub(start)),
	)
	return suggestions, nil
}

func (j *LowStockScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
