package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLowStockScan re-derives the low-stock list from persisted state.
	TaskLowStockScan = "stock:low_scan"
)

// LowStockScanPayload records who asked for the scan.
type LowStockScanPayload struct {
	Source string `json:"source"`
}

// NewLowStockScanTask constructs an Asynq task for the low-stock scan.
func NewLowStockScanTask(source string) (*asynq.Task, error) {
	body, err := json.Marshal(LowStockScanPayload{Source: source})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, body, asynq.Queue(QueueDefault)), nil
}
