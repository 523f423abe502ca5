package commands

import (
	"errors"

	"ordercore/internal/core/domain/model/fulfillment"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/guard"
)

var (
	ErrRecordFulfillmentCommandIsNotConstructed = errors.New(
		"RecordFulfillmentCommand must be created via NewRecordFulfillmentCommand constructor",
	)
	ErrFulfillmentLinesAreRequired = errors.New("at least one fulfillment line is required")
	ErrIdempotencyKeyIsRequired    = errors.New("idempotency key is required")
)

// FulfillmentLineInput reports fulfilled units against one line of the
// fulfillment order, addressed by the order line item it mirrors.
type FulfillmentLineInput struct {
	OrderLineItemID kernel.ID
	Quantity        int
}

// RecordFulfillmentCommand represents a location reporting completed
// fulfillment work: which lines shipped, how many units, and the tracking
// reference. The idempotency key deduplicates retried reports.
type RecordFulfillmentCommand struct { //nolint:recvcheck //using for validation
	storeID            kernel.StoreID
	fulfillmentOrderID kernel.ID
	lines              []FulfillmentLineInput
	tracking           fulfillment.TrackingInfo
	idempotencyKey     string

	guard guard.ConstructorGuard
}

// NewRecordFulfillmentCommand creates a command to record fulfilled work.
// Validates identifiers, requires at least one line and an idempotency key.
func NewRecordFulfillmentCommand(
	storeID kernel.StoreID,
	fulfillmentOrderID kernel.ID,
	lines []FulfillmentLineInput,
	tracking fulfillment.TrackingInfo,
	idempotencyKey string,
) (RecordFulfillmentCommand, error) {
	cmd := RecordFulfillmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		storeID.Validate(),
		fulfillmentOrderID.Validate(),
		cmd.setLines(lines),
		cmd.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return RecordFulfillmentCommand{}, err
	}

	cmd.storeID = storeID
	cmd.fulfillmentOrderID = fulfillmentOrderID
	cmd.tracking = tracking
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRecordFulfillmentCommandIsNotConstructed if validation fails.
func (c RecordFulfillmentCommand) Validate() error {
	return c.guard.Validate(ErrRecordFulfillmentCommandIsNotConstructed)
}

// StoreID returns the tenant the work belongs to.
func (c RecordFulfillmentCommand) StoreID() kernel.StoreID {
	return c.storeID
}

// FulfillmentOrderID returns the fulfillment order being worked.
func (c RecordFulfillmentCommand) FulfillmentOrderID() kernel.ID {
	return c.fulfillmentOrderID
}

// Lines returns the reported quantities.
func (c RecordFulfillmentCommand) Lines() []FulfillmentLineInput {
	return c.lines
}

// Tracking returns the shipment tracking reference.
func (c RecordFulfillmentCommand) Tracking() fulfillment.TrackingInfo {
	return c.tracking
}

// IdempotencyKey returns the caller-supplied deduplication key.
func (c RecordFulfillmentCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c *RecordFulfillmentCommand) setLines(lines []FulfillmentLineInput) error {
	if len(lines) == 0 {
		return ErrFulfillmentLinesAreRequired
	}

	c.lines = lines
	return nil
}

func (c *RecordFulfillmentCommand) setIdempotencyKey(key string) error {
	if key == "" {
		return ErrIdempotencyKeyIsRequired
	}

	c.idempotencyKey = key
	return nil
}
