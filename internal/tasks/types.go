package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeProjectSnapshot = "metrics:project_snapshot"
	TypeSnapshotAll     = "metrics:snapshot_all"
)

// Queue names, matching the weights in queue.NewServer.
const (
	QueueDefault = "default"
	QueueLow     = "low"
)

// ProjectSnapshotPayload identifies the project whose metrics are recorded.
type ProjectSnapshotPayload struct {
	CustomerID uuid.UUID `json:"customer_id"`
	ProjectID  uuid.UUID `json:"project_id"`
}

func NewProjectSnapshotTask(payload ProjectSnapshotPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeProjectSnapshot, data), nil
}

// NewSnapshotAllTask fans out to one project snapshot per active project.
func NewSnapshotAllTask() *asynq.Task {
	return asynq.NewTask(TypeSnapshotAll, nil)
}
