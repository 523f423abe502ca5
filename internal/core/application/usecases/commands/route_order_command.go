package commands

import (
	"errors"

	"ordercore/internal/core/domain/model/fulfillmentorder"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/services"
	"ordercore/internal/pkg/guard"
)

var ErrRouteOrderCommandIsNotConstructed = errors.New(
	"RouteOrderCommand must be created via NewRouteOrderCommand constructor",
)

// RouteOrderCommand represents a request to route an order's unfulfilled
// lines to stock locations, producing fulfillment orders.
type RouteOrderCommand struct { //nolint:recvcheck //using for validation
	storeID        kernel.StoreID
	orderID        kernel.ID
	policy         services.RoutingPolicy
	deliveryMethod fulfillmentorder.ExpectedDeliveryMethod
	destination    fulfillmentorder.Destination

	guard guard.ConstructorGuard
}

// NewRouteOrderCommand creates a command to route an order. The destination
// is the order's shipping address as resolved by the caller; it may be empty
// for pickup orders.
func NewRouteOrderCommand(
	storeID kernel.StoreID,
	orderID kernel.ID,
	policy services.RoutingPolicy,
	deliveryMethod fulfillmentorder.ExpectedDeliveryMethod,
	destination fulfillmentorder.Destination,
) (RouteOrderCommand, error) {
	cmd := RouteOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		storeID.Validate(),
		orderID.Validate(),
		policy.Validate(),
		deliveryMethod.Validate(),
	); err != nil {
		return RouteOrderCommand{}, err
	}

	cmd.storeID = storeID
	cmd.orderID = orderID
	cmd.policy = policy
	cmd.deliveryMethod = deliveryMethod
	cmd.destination = destination
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRouteOrderCommandIsNotConstructed if validation fails.
func (c RouteOrderCommand) Validate() error {
	return c.guard.Validate(ErrRouteOrderCommandIsNotConstructed)
}

// StoreID returns the tenant the order belongs to.
func (c RouteOrderCommand) StoreID() kernel.StoreID {
	return c.storeID
}

// OrderID returns the order to route.
func (c RouteOrderCommand) OrderID() kernel.ID {
	return c.orderID
}

// Policy returns the routing policy to apply.
func (c RouteOrderCommand) Policy() services.RoutingPolicy {
	return c.policy
}

// DeliveryMethod returns the expected delivery method of the routed work.
func (c RouteOrderCommand) DeliveryMethod() fulfillmentorder.ExpectedDeliveryMethod {
	return c.deliveryMethod
}

// Destination returns the delivery destination.
func (c RouteOrderCommand) Destination() fulfillmentorder.Destination {
	return c.destination
}
