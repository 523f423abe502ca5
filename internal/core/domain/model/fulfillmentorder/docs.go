// Package fulfillmentorder provides domain entities and business logic for
// fulfillment orders, the unit of fulfillment work assigned to a single
// location by the routing service.
//
// The package includes:
//   - FulfillmentOrder: The aggregate root tracking routed lines and their
//     remaining quantities
//   - LineItem: A nested entity mirroring one order line item
//   - Status: A state machine over open, in_progress, closed, and cancelled
//
// Key business rules:
//   - Remaining quantity per line never drops below zero
//   - Only active fulfillment orders accept work
//   - A fulfillment order closes itself once every line is drained
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package fulfillmentorder
