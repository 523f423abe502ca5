package jobs

import (
	"context"
	"log/slog"

	"ordercore/internal/core/ports"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// EventRelayJob drains the outbox on a schedule. Each pass reads a batch of
// staged domain events, publishes them to the broker and marks them settled.
// A failed pass leaves the batch in place; the next pass retries it, so
// consumers may see duplicates but never gaps.
type EventRelayJob struct {
	outbox    ports.OutboxRepository
	publisher ports.EventPublisher
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewEventRelayJob creates a relay that drains up to batchSize events per
// pass on the given cron schedule (with seconds field).
func NewEventRelayJob(
	outbox ports.OutboxRepository,
	publisher ports.EventPublisher,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) *EventRelayJob {
	return &EventRelayJob{
		outbox:    outbox,
		publisher: publisher,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "event_relay_job"),
	}
}

// Start begins draining the outbox on the configured schedule.
func (j *EventRelayJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Event relay pass failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Event relay job started",
		"schedule", j.schedule, "batch_size", j.batchSize)
	return nil
}

// Stop stops the relay. A pass already in flight finishes.
func (j *EventRelayJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Event relay job stopped")
}

// RunOnce performs a single drain pass. Marking happens only after the
// broker accepted the whole batch.
func (j *EventRelayJob) RunOnce(ctx context.Context) error {
	messages, err := j.outbox.GetUnpublished(ctx, j.batchSize)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}

	if err := j.publisher.Publish(ctx, messages); err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(messages))
	for _, message := range messages {
		ids = append(ids, message.ID)
	}
	if err := j.outbox.MarkPublished(ctx, ids); err != nil {
		return err
	}

	j.logger.InfoContext(ctx, "Published staged events", "count", len(messages))
	return nil
}
