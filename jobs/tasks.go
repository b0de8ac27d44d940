package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogLowStockScan is the task type for the nightly stock scan.
	TaskCatalogLowStockScan = "catalog:low_stock_scan"
)

// LowStockScanPayload parameterises the low-stock scan.
type LowStockScanPayload struct {
	Threshold int `json:"threshold"`
}

// NewLowStockScanTask constructs an Asynq task.
func NewLowStockScanTask(threshold int) (*asynq.Task, error) {
	data, err := json.Marshal(LowStockScanPayload{Threshold: threshold})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogLowStockScan, data), nil
}
