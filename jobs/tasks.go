// Package jobs contains the background worker: the Asynq server wrapper and
// the scheduled maintenance tasks.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOrdersPurge hard-deletes soft-deleted orders past retention.
	TaskOrdersPurge = "orders:purge"
	// TaskStockIntegrity scans stock rows for invariant violations.
	TaskStockIntegrity = "stock:integrity"
)

// OrdersPurgePayload parameterises a purge run. A zero Limit purges without a
// batch cap.
type OrdersPurgePayload struct {
	Limit int `json:"limit"`
}

// NewOrdersPurgeTask constructs an orders:purge task.
func NewOrdersPurgeTask(payload OrdersPurgePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrdersPurge, data), nil
}

// NewStockIntegrityTask constructs a stock:integrity task.
func NewStockIntegrityTask() *asynq.Task {
	return asynq.NewTask(TaskStockIntegrity, nil)
}
