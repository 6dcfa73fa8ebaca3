package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerSnapshot copies the ledger files into a dated snapshot prefix.
	TaskLedgerSnapshot = "ledger:snapshot"
)

// SnapshotPayload names the calendar date a snapshot belongs to.
type SnapshotPayload struct {
	Date string `json:"date"`
}

// NewSnapshotTask constructs an Asynq task for a ledger snapshot.
func NewSnapshotTask(payload SnapshotPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerSnapshot, data), nil
}
