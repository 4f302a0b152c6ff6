package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/itstock/internal/inventory"
	jobmetrics "github.com/odyssey-erp/itstock/internal/jobs"
	"github.com/odyssey-erp/itstock/internal/storage"
)

type staticLoader storage.Snapshot

func (s staticLoader) Load(ctx context.Context) storage.Snapshot { return storage.Snapshot(s) }

type fakeEnqueuer struct {
	sources []string
	err     error
}

func (f *fakeEnqueuer) EnqueueLowStockScan(ctx context.Context, source string) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sources = append(f.sources, source)
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueDefault}, nil
}

func TestNewLowStockScanTask(t *testing.T) {
	task, err := NewLowStockScanTask("cli")
	require.NoError(t, err)
	require.Equal(t, TaskLowStockScan, task.Type())

	var payload LowStockScanPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, "cli", payload.Source)
}

func TestLowStockScanJob(t *testing.T) {
	loader := staticLoader{Items: []inventory.Item{
		{ID: "a", Name: "Mouse", Quantity: 1, MinThreshold: 3},
		{ID: "b", Name: "Laptop", Quantity: 8, MinThreshold: 2},
		{ID: "c", Name: "Toner", Quantity: 0, MinThreshold: 1},
	}}
	metrics := jobmetrics.NewMetrics(prometheus.NewRegistry())
	job := NewLowStockScanJob(loader, nil, metrics)

	suggestions, err := job.Scan(context.Background(), "test")
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	require.Equal(t, "Mouse", suggestions[0].Name)
	require.Equal(t, 6, suggestions[1].SuggestedQuantity)

	task, err := NewLowStockScanTask("")
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	bad := asynq.NewTask(TaskLowStockScan, []byte("{"))
	require.ErrorIs(t, job.Handle(context.Background(), bad), asynq.SkipRetry)

	var unconfigured *LowStockScanJob
	require.Error(t, unconfigured.Handle(context.Background(), task))
}

func TestHandlerTriggerAndHealth(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	r := chi.NewRouter()
	r.Route("/api/jobs", NewHandler(nil, enqueuer, nil).MountRoutes)

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/api/jobs/low-scan", nil))
	require.Equal(t, http.StatusAccepted, res.Code)
	require.Equal(t, "application/json", res.Header().Get("Content-Type"))
	require.JSONEq(t, `{"task_id":"task-1","queue":"default"}`, res.Body.String())
	require.Equal(t, []string{"api"}, enqueuer.sources)

	res = httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/jobs/health", nil))
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t, `{"queue":"default","pending":0}`, res.Body.String())

	enqueuer.err = errors.New("redis down")
	res = httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/api/jobs/low-scan", nil))
	require.Equal(t, http.StatusServiceUnavailable, res.Code)
	require.Equal(t, "application/problem+json", res.Header().Get("Content-Type"))
}

func TestHandlerWithoutQueue(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/api/jobs", NewHandler(nil, nil, nil).MountRoutes)

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/api/jobs/low-scan", nil))
	require.Equal(t, http.StatusServiceUnavailable, res.Code)
	require.Contains(t, res.Body.String(), "not configured")
}
