package email

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"plik-backend/internal/shared"
)

// ================================================
// DIRECT DELIVERY
// ================================================

type DirectDispatcher struct {
	sender Sender
}

func NewDirectDispatcher(sender Sender) *DirectDispatcher {
	return &DirectDispatcher{sender: sender}
}

func (d *DirectDispatcher) Dispatch(ctx context.Context, msg Message) (string, error) {
	return d.sender.Send(ctx, msg)
}

// ================================================
// QUEUED DELIVERY (asynq, processed by cmd/worker)
// ================================================

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type QueueDispatcher struct {
	client TaskEnqueuer
}

func NewQueueDispatcher(client TaskEnqueuer) *QueueDispatcher {
	return &QueueDispatcher{client: client}
}

// Dispatch enqueues the message and returns the asynq task id.
func (d *QueueDispatcher) Dispatch(ctx context.Context, msg Message) (string, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal email payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeSendEmail, payload)
	info, err := d.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue email: %w", err)
	}
	return info.ID, nil
}
