package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskNotificationEmail string = "notification:email"
)

type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EmailChannel hands the intent over to the task queue. Retries happen in
// the queue worker, not here.
type EmailChannel struct {
	enqueuer Enqueuer
	opts     []asynq.Option
}

func NewEmailChannel(e Enqueuer, opts ...asynq.Option) *EmailChannel {
	if len(opts) < 1 {
		opts = []asynq.Option{
			asynq.MaxRetry(3),
			asynq.Queue("critical"),
			asynq.Retention(24 * time.Hour),
		}
	}

	return &EmailChannel{enqueuer: e, opts: opts}
}

func (c *EmailChannel) Name() string {
	return ChannelEmail
}

func (c *EmailChannel) Send(ctx context.Context, intent Intent) error {
	if intent.TargetFor(ChannelEmail) == nil {
		return fmt.Errorf("%w: %s", ErrNoTarget, ChannelEmail)
	}

	task, err := NewEmailTask(intent)
	if err != nil {
		return fmt.Errorf("Could not create task: %w", err)
	}

	opts := append([]asynq.Option{asynq.TaskID(intent.ID.String())}, c.opts...)

	info, err := c.enqueuer.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("Could not enqueue task: %w", err)
	}

	slog.Info(fmt.Sprintf("Enqueued tasks: [%s] %s", info.ID, info.Queue))

	return nil
}

func NewEmailTask(intent Intent) (*asynq.Task, error) {
	payload, err := json.Marshal(intent)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskNotificationEmail, payload), nil
}

func ParseEmailTask(t *asynq.Task) (Intent, error) {
	intent := Intent{}

	if err := json.Unmarshal(t.Payload(), &intent); err != nil {
		return Intent{}, err
	}

	if intent.TargetFor(ChannelEmail) == nil {
		return Intent{}, ErrNoTarget
	}

	return intent, nil
}
