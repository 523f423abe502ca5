package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventPublisher delivers committed domain events to the message broker.
// Publishing happens after the owning transaction has committed; the relay
// reads events from the outbox and marks them published on success.
type EventPublisher interface {
	// Publish sends the messages in order. Partial failure returns an
	// error and the unpublished tail stays in the outbox for the next pass.
	Publish(ctx context.Context, messages []OutboxMessage) error
}

// OutboxMessage is a domain event staged for publication, in the form the
// relay reads it back from storage.
type OutboxMessage struct {
	ID        uuid.UUID
	Name      string
	StoreID   int64
	OrderID   int64
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository reads and settles staged events. Staging itself happens
// inside UnitOfWork.Commit.
type OutboxRepository interface {
	// GetUnpublished returns up to limit staged messages, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]OutboxMessage, error)

	// MarkPublished settles the given messages so they are not re-sent.
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}
