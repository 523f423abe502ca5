// Package order provides domain entities and business logic for the order
// aggregate, the heart of the order management core.
//
// The package includes:
//   - Order: The aggregate root owning line items, shipping lines, discount
//     applications, and the monetary transaction ledger
//   - LineItem: A nested entity tracking ordered, fulfilled, and refunded
//     quantities per purchasable position
//   - Status, FinancialStatus, FulfillmentStatus: state machines and derived
//     statuses for the order lifecycle
//
// Key business rules:
//   - Fulfilled plus refunded quantity per line never exceeds the ordered
//     quantity
//   - Monetary totals are always recomputed from the owned lines
//   - Financial and fulfillment status are derived from the ledger and the
//     line quantities, never accepted from input
//   - Rule checks precede mutation, so a rejected operation leaves the
//     aggregate untouched
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
