package classifier

import (
	"context"
	"fmt"

	"SentiPull/internal/domain/models"
	"SentiPull/pkg/queue"
)

// RetryMsgType is the queue message type for failed classifications.
const RetryMsgType = "classify_retry"

// RetryEnqueuer parks text items on the redis queue when classification
// fails, so they get another shot once the inference service recovers.
type RetryEnqueuer struct {
	q queue.QueueService
}

func NewRetryEnqueuer(q queue.QueueService) *RetryEnqueuer {
	return &RetryEnqueuer{q: q}
}

func (e *RetryEnqueuer) Enqueue(ctx context.Context, item *models.TextItem) error {
	return e.q.PublishMessage(ctx, RetryMsgType, item)
}

// ItemCollector re-runs the classify-and-record path for a text item.
type ItemCollector interface {
	Collect(ctx context.Context, item *models.TextItem) (*models.Classification, error)
}

// RetryJob consumes parked items and pushes them back through the
// collector. Errors propagate so the queue applies its retry/DLQ policy.
type RetryJob struct {
	collector ItemCollector
}

func NewRetryJob(collector ItemCollector) *RetryJob {
	return &RetryJob{collector: collector}
}

func (j *RetryJob) Name() string { return "classify-retry" }
func (j *RetryJob) Type() string { return RetryMsgType }

func (j *RetryJob) Handle(ctx context.Context, payload interface{}) error {
	item, err := queue.ParsePayload[models.TextItem](payload)
	if err != nil {
		return fmt.Errorf("parse retry payload: %w", err)
	}
	if _, err := j.collector.Collect(ctx, item); err != nil {
		return fmt.Errorf("retry classify: %w", err)
	}
	return nil
}

var _ queue.Job = (*RetryJob)(nil)
