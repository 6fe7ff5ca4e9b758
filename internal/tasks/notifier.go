package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// snapshotDebounce collapses bursts of edits on one project into a single job.
const snapshotDebounce = 30 * time.Second

// Notifier enqueues a project snapshot whenever the service reports a change.
type Notifier struct {
	client Enqueuer
}

func NewNotifier(client Enqueuer) *Notifier {
	return &Notifier{client: client}
}

func (n *Notifier) ProjectChanged(ctx context.Context, customerID, projectID uuid.UUID) error {
	return enqueueSnapshot(ctx, n.client, customerID, projectID,
		asynq.Queue(QueueDefault),
		asynq.Unique(snapshotDebounce),
	)
}

func enqueueSnapshot(ctx context.Context, client Enqueuer, customerID, projectID uuid.UUID, opts ...asynq.Option) error {
	task, err := NewProjectSnapshotTask(ProjectSnapshotPayload{
		CustomerID: customerID,
		ProjectID:  projectID,
	})
	if err != nil {
		return err
	}
	_, err = client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}
