package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"ordercore/internal/core/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutbox struct {
	messages  []ports.OutboxMessage
	marked    []uuid.UUID
	getErr    error
	markErr   error
	markCalls int
}

func (f *fakeOutbox) GetUnpublished(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if len(f.messages) > limit {
		return f.messages[:limit], nil
	}
	return f.messages, nil
}

func (f *fakeOutbox) MarkPublished(_ context.Context, ids []uuid.UUID) error {
	f.markCalls++
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, ids...)
	return nil
}

type fakePublisher struct {
	published [][]ports.OutboxMessage
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, messages []ports.OutboxMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, messages)
	return nil
}

func newTestRelay(outbox *fakeOutbox, publisher *fakePublisher, batchSize int) *EventRelayJob {
	return NewEventRelayJob(outbox, publisher, "* * * * * *", batchSize,
		slog.New(slog.DiscardHandler))
}

func stagedMessage(name string) ports.OutboxMessage {
	return ports.OutboxMessage{
		ID:      uuid.New(),
		Name:    name,
		StoreID: 42,
		OrderID: 1001,
		Payload: []byte(`{}`),
	}
}

func TestRunOnce_PublishesAndMarksBatch(t *testing.T) {
	first := stagedMessage("order.created")
	second := stagedMessage("order.fulfillment_recorded")
	outbox := &fakeOutbox{messages: []ports.OutboxMessage{first, second}}
	publisher := &fakePublisher{}
	relay := newTestRelay(outbox, publisher, 100)

	err := relay.RunOnce(context.Background())

	require.NoError(t, err)
	require.Len(t, publisher.published, 1)
	assert.Len(t, publisher.published[0], 2)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, outbox.marked)
}

func TestRunOnce_EmptyOutbox_DoesNothing(t *testing.T) {
	outbox := &fakeOutbox{}
	publisher := &fakePublisher{}
	relay := newTestRelay(outbox, publisher, 100)

	err := relay.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Empty(t, publisher.published)
	assert.Zero(t, outbox.markCalls)
}

func TestRunOnce_RespectsBatchSize(t *testing.T) {
	outbox := &fakeOutbox{messages: []ports.OutboxMessage{
		stagedMessage("order.created"),
		stagedMessage("order.created"),
		stagedMessage("order.created"),
	}}
	publisher := &fakePublisher{}
	relay := newTestRelay(outbox, publisher, 2)

	err := relay.RunOnce(context.Background())

	require.NoError(t, err)
	require.Len(t, publisher.published, 1)
	assert.Len(t, publisher.published[0], 2)
	assert.Len(t, outbox.marked, 2)
}

func TestRunOnce_PublishFailure_LeavesBatchUnmarked(t *testing.T) {
	outbox := &fakeOutbox{messages: []ports.OutboxMessage{stagedMessage("order.created")}}
	publisher := &fakePublisher{err: errors.New("broker unavailable")}
	relay := newTestRelay(outbox, publisher, 100)

	err := relay.RunOnce(context.Background())

	require.Error(t, err)
	assert.Zero(t, outbox.markCalls)
}

func TestRunOnce_ReadFailure_IsReturned(t *testing.T) {
	outbox := &fakeOutbox{getErr: errors.New("connection refused")}
	relay := newTestRelay(outbox, &fakePublisher{}, 100)

	err := relay.RunOnce(context.Background())

	require.Error(t, err)
}
